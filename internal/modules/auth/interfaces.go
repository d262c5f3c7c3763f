package auth

import (
	"context"
	"time"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

// UserRepositoryInterface covers only the methods the session manager uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	GetRoleName(ctx context.Context, login string) (string, error)
	AssignRole(ctx context.Context, login, roleID string) (*domain.User, error)
	UnassignRole(ctx context.Context, login, roleID string) error
}

type RoleRepositoryInterface interface {
	IDByName(ctx context.Context, name string) (string, error)
}

// TokenCodec is the slice of internal/token the session manager depends on.
type TokenCodec interface {
	Issue(userLogin, userRole string) (access, refresh string, err error)
	Decode(tokenStr string) (*token.Claims, error)
	RefreshTTL() time.Duration
}

// HistoryRecorder receives authentication-attempt audit entries. Calls are
// best-effort: the session manager logs failures and moves on.
type HistoryRecorder interface {
	Record(ctx context.Context, login, userAgent string, success bool) error
}
