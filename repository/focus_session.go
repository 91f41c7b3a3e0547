package repository

import (
	"context"
	"time"

	"github.com/fastygo/deadliner/domain"
)

// FocusSessionFilter narrows a session listing. Since keeps sessions started at or after it.
type FocusSessionFilter struct {
	UserID     string
	DeadlineID string
	Since      time.Time
	Limit      int
	Offset     int
}

// FocusSessionRepository lists sessions ordered by started_at descending.
type FocusSessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.FocusSession, error)
	List(ctx context.Context, filter FocusSessionFilter) ([]domain.FocusSession, error)
	Create(ctx context.Context, session *domain.FocusSession) (*domain.FocusSession, error)
	Update(ctx context.Context, session *domain.FocusSession) error
	Upsert(ctx context.Context, session *domain.FocusSession) error
}
