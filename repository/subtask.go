package repository

import (
	"context"

	"github.com/fastygo/deadliner/domain"
)

type SubtaskFilter struct {
	UserID     string
	DeadlineID string
	Limit      int
	Offset     int
}

// SubtaskRepository lists subtasks ordered by order_index.
type SubtaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	List(ctx context.Context, filter SubtaskFilter) ([]domain.Subtask, error)
	Create(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error)
	Update(ctx context.Context, subtask *domain.Subtask) error
	Upsert(ctx context.Context, subtask *domain.Subtask) error
	Delete(ctx context.Context, id string) error
	DeleteByDeadline(ctx context.Context, deadlineID string) error
}
