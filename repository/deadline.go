package repository

import (
	"context"

	"github.com/fastygo/deadliner/domain"
)

// DeadlineFilter narrows a deadline listing. A zero Limit means no limit.
type DeadlineFilter struct {
	UserID     string
	CategoryID string
	ParentID   string
	RootsOnly  bool
	Limit      int
	Offset     int
}

// DeadlineRepository lists deadlines ordered by deadline_at ascending.
type DeadlineRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Deadline, error)
	List(ctx context.Context, filter DeadlineFilter) ([]domain.Deadline, error)
	Create(ctx context.Context, deadline *domain.Deadline) (*domain.Deadline, error)
	Update(ctx context.Context, deadline *domain.Deadline) error
	Upsert(ctx context.Context, deadline *domain.Deadline) error
	Delete(ctx context.Context, id string) error
	DetachCategory(ctx context.Context, userID, categoryID string) error
}
