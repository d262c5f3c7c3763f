package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/auth"
)

const ProviderYandex = "yandex"

var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrExchangeFailed  = errors.New("oauth code exchange failed")
)

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	InfoURL      string
	RedirectURI  string
}

type OAuthRepositoryInterface interface {
	GetAccount(ctx context.Context, providerUserID, providerName string) (*domain.OAuthAccount, error)
	CreateAccount(ctx context.Context, account *domain.OAuthAccount) error
}

type UserProvisioner interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
}

type RoleLookup interface {
	IDByName(ctx context.Context, name string) (string, error)
}

// SessionIssuer logs a provider-verified user in without a password check.
type SessionIssuer interface {
	LoginOAuth(ctx context.Context, login, userAgent string) (*auth.TokenPair, error)
}

type Service struct {
	cfg             ProviderConfig
	accounts        OAuthRepositoryInterface
	users           UserProvisioner
	roles           RoleLookup
	sessions        SessionIssuer
	defaultUserRole string
	client          *http.Client
}

func NewService(
	cfg ProviderConfig,
	accounts OAuthRepositoryInterface,
	users UserProvisioner,
	roles RoleLookup,
	sessions SessionIssuer,
	defaultUserRole string,
) *Service {
	return &Service{
		cfg:             cfg,
		accounts:        accounts,
		users:           users,
		roles:           roles,
		sessions:        sessions,
		defaultUserRole: defaultUserRole,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the provider consent page URL the client is redirected to.
func (s *Service) AuthorizeURL(provider, state string) (string, error) {
	if provider != ProviderYandex {
		return "", ErrUnknownProvider
	}

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", s.cfg.ClientID)
	query.Set("redirect_uri", s.cfg.RedirectURI)
	query.Set("state", state)
	return s.cfg.AuthorizeURL + "?" + query.Encode(), nil
}

type userInfo struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"default_email"`
}

// Authenticate completes the callback leg: exchanges the code, resolves or
// provisions the local user, and issues a session for them.
func (s *Service) Authenticate(ctx context.Context, provider, code, userAgent string) (*auth.TokenPair, error) {
	if provider != ProviderYandex {
		return nil, ErrUnknownProvider
	}

	providerToken, err := s.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	info, err := s.fetchUserInfo(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccount(ctx, info.ID, provider)
	if err != nil {
		return nil, err
	}

	var login string
	if account != nil {
		user, err := s.users.GetByID(ctx, account.UserID)
		if err != nil {
			return nil, err
		}
		login = user.Login
	} else {
		user, err := s.provision(ctx, provider, info)
		if err != nil {
			return nil, err
		}
		login = user.Login
	}

	return s.sessions.LoginOAuth(ctx, login, userAgent)
}

// provision creates a local user for a first-time provider login. The account
// gets a random password; the user can only ever enter through the provider
// until they change credentials.
func (s *Service) provision(ctx context.Context, provider string, info *userInfo) (*domain.User, error) {
	login, err := s.pickLogin(ctx, info.Login)
	if err != nil {
		return nil, err
	}

	roleID, err := s.roles.IDByName(ctx, s.defaultUserRole)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(randomSecret()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := info.Email
	if email == "" {
		email = login + "@" + provider + ".oauth.invalid"
	}

	user := &domain.User{
		Login:        login,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       &roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.accounts.CreateAccount(ctx, &domain.OAuthAccount{
		UserID:         user.ID,
		ProviderUserID: info.ID,
		ProviderName:   provider,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// pickLogin prefers the provider's login and falls back to a suffixed variant
// when it collides with an existing local account.
func (s *Service) pickLogin(ctx context.Context, preferred string) (string, error) {
	if preferred == "" {
		preferred = "user"
	}
	taken, err := s.users.ExistsByLogin(ctx, preferred)
	if err != nil {
		return "", err
	}
	if !taken {
		return preferred, nil
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return preferred + "_" + hex.EncodeToString(suffix), nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func (s *Service) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", ErrExchangeFailed
	}
	return payload.AccessToken, nil
}

func (s *Service) fetchUserInfo(ctx context.Context, providerToken string) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.InfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+providerToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: info endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
