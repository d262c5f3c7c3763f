package history

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type HistoryRepositoryInterface interface {
	Insert(ctx context.Context, entry *domain.AuthHistory) error
	ListByUser(ctx context.Context, userID string, page, size int) ([]domain.AuthHistory, int64, error)
}

type UserLookup interface {
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
}

// Service records login attempts and serves the paginated audit trail.
// It doubles as the auth module's HistoryRecorder.
type Service struct {
	entries HistoryRepositoryInterface
	users   UserLookup
}

func NewService(entries HistoryRepositoryInterface, users UserLookup) *Service {
	return &Service{entries: entries, users: users}
}

// Record persists one attempt. Attempts against unknown logins have no user
// row to attach to and are skipped silently; the caller already treats the
// whole recording as best-effort.
func (s *Service) Record(ctx context.Context, login, userAgent string, success bool) error {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.entries.Insert(ctx, &domain.AuthHistory{
		UserID:    user.ID,
		Success:   success,
		UserAgent: userAgent,
	})
}

type Page struct {
	Items []domain.AuthHistory `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
}

func (s *Service) List(ctx context.Context, userID string, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	items, total, err := s.entries.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total, Page: page, Size: size}, nil
}
