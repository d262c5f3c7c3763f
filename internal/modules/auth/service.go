package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/cache"
	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
	"github.com/SmirnovaT/Auth-sprint-2/internal/repository"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

// Service is the session manager: it owns login, refresh rotation, logout
// and credential changes. The refresh-token slot in the session cache is the
// single source of truth for which refresh token is live per subject.
type Service struct {
	users           UserRepositoryInterface
	roles           RoleRepositoryInterface
	codec           TokenCodec
	sessions        cache.SessionCache
	history         HistoryRecorder
	defaultUserRole string
}

func NewService(
	users UserRepositoryInterface,
	roles RoleRepositoryInterface,
	codec TokenCodec,
	sessions cache.SessionCache,
	history HistoryRecorder,
	defaultUserRole string,
) *Service {
	return &Service{
		users:           users,
		roles:           roles,
		codec:           codec,
		sessions:        sessions,
		history:         history,
		defaultUserRole: defaultUserRole,
	}
}

func (s *Service) Register(ctx context.Context, req SignupRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByLogin(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrLoginAlreadyExists
	}

	roleID, err := s.roles.IDByName(ctx, s.defaultUserRole)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoleID:       &roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrLoginAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by login/password and issues a fresh pair. An audit
// entry is recorded for every attempt, failed ones included.
func (s *Service) Login(ctx context.Context, login, password, userAgent string) (*TokenPair, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(ctx, login, userAgent, false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(ctx, login, userAgent, false)
		return nil, ErrInvalidCredentials
	}

	role, err := s.users.GetRoleName(ctx, login)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, login, role)
	if err != nil {
		return nil, err
	}

	s.record(ctx, login, userAgent, true)
	return pair, nil
}

// LoginOAuth issues a pair for a user already authenticated by an OAuth
// provider; there is no password to check.
func (s *Service) LoginOAuth(ctx context.Context, login, userAgent string) (*TokenPair, error) {
	role, err := s.users.GetRoleName(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(ctx, login, userAgent, false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, login, role)
	if err != nil {
		return nil, err
	}

	s.record(ctx, login, userAgent, true)
	return pair, nil
}

// Refresh validates the presented refresh token cryptographically and against
// the live slot, then rotates. A token that was already rotated away fails
// with ErrSessionMismatch even if it has not expired: the slot comparison is
// the replay defense.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.codec.Decode(presented)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != token.TypeRefresh {
		return nil, token.ErrInvalidToken
	}

	if _, err := s.sessions.Get(ctx, denylistKey(presented)); err == nil {
		return nil, ErrSessionMismatch
	}

	cached, err := s.sessions.Get(ctx, claims.UserLogin)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrSessionMismatch
		}
		return nil, err
	}
	if cached != presented {
		return nil, ErrSessionMismatch
	}

	// The role is re-read on every refresh so role changes propagate on the
	// next rotation, not only at login.
	role, err := s.users.GetRoleName(ctx, claims.UserLogin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionMismatch
		}
		return nil, err
	}

	return s.issuePair(ctx, claims.UserLogin, role)
}

// Logout clears the subject's refresh slot unconditionally and denylists the
// presented token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, login, presented string) error {
	if err := s.sessions.Delete(ctx, login); err != nil {
		log.Printf("logout: deleting session for %q: %v", login, err)
	}

	claims, err := s.codec.Decode(presented)
	if err != nil {
		// Nothing valid to denylist; the slot is already gone.
		return err
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining > 0 {
		if err := s.sessions.Set(ctx, denylistKey(presented), "revoked", remaining); err != nil {
			return err
		}
	}
	return nil
}

// ChangeCredentials re-authenticates, applies the requested login/password
// changes and rotates the session under the (possibly new) login.
func (s *Service) ChangeCredentials(ctx context.Context, req ChangeCredentialsRequest) (*TokenPair, error) {
	user, err := s.users.GetByLogin(ctx, req.UserLogin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	oldLogin := user.Login
	if req.NewLogin != "" {
		user.Login = req.NewLogin
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.Login != oldLogin {
		if err := s.sessions.Delete(ctx, oldLogin); err != nil {
			log.Printf("change credentials: deleting stale session for %q: %v", oldLogin, err)
		}
	}

	role, err := s.users.GetRoleName(ctx, user.Login)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, user.Login, role)
}

func (s *Service) ChangeUserRole(ctx context.Context, login, roleID string) (*domain.User, error) {
	user, err := s.users.AssignRole(ctx, login, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) RemoveUserRole(ctx context.Context, login, roleID string) error {
	if err := s.users.UnassignRole(ctx, login, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

// issuePair mints a pair and overwrites the subject's refresh slot. The slot
// write is what makes the new refresh token the only acceptable one.
func (s *Service) issuePair(ctx context.Context, login, role string) (*TokenPair, error) {
	access, refresh, err := s.codec.Issue(login, role)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, login, refresh, s.codec.RefreshTTL()); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) record(ctx context.Context, login, userAgent string, success bool) {
	if err := s.history.Record(ctx, login, userAgent, success); err != nil {
		log.Printf("auth history: recording attempt for %q: %v", login, err)
	}
}

// denylistKey derives a per-token revocation key, so logging out one session
// never untracks another revoked token.
func denylistKey(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return "denylist:" + hex.EncodeToString(sum[:])
}
