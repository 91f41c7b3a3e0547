package local

import (
	"context"
	"slices"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

type subtaskRepository struct {
	items collection[domain.Subtask]
}

// NewSubtaskRepository returns a bbolt-backed SubtaskRepository.
func NewSubtaskRepository(db *DB) repository.SubtaskRepository {
	return &subtaskRepository{items: collection[domain.Subtask]{
		db:       db,
		bucket:   bucketSubtasks,
		id:       func(s *domain.Subtask) *string { return &s.ID },
		notFound: domain.ErrSubtaskNotFound,
	}}
}

func (r *subtaskRepository) GetByID(_ context.Context, id string) (*domain.Subtask, error) {
	return r.items.get(id)
}

func (r *subtaskRepository) List(_ context.Context, filter repository.SubtaskFilter) ([]domain.Subtask, error) {
	out, err := r.items.all(func(s *domain.Subtask) bool {
		if filter.UserID != "" && s.UserID != filter.UserID {
			return false
		}
		return filter.DeadlineID == "" || s.DeadlineID == filter.DeadlineID
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.Subtask) int {
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex - b.OrderIndex
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *subtaskRepository) Create(_ context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	if subtask == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := r.items.put(subtask, false); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (r *subtaskRepository) Update(_ context.Context, subtask *domain.Subtask) error {
	if subtask == nil || subtask.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.items.put(subtask, true)
}

func (r *subtaskRepository) Upsert(_ context.Context, subtask *domain.Subtask) error {
	if subtask == nil {
		return domain.ErrInvalidPayload
	}
	return r.items.upsert(subtask, func(v *domain.Subtask) string { return v.UserID })
}

func (r *subtaskRepository) Delete(_ context.Context, id string) error {
	return r.items.delete(id)
}

func (r *subtaskRepository) DeleteByDeadline(_ context.Context, deadlineID string) error {
	return r.items.rewrite(func(s *domain.Subtask) (bool, bool) {
		return false, s.DeadlineID == deadlineID
	})
}
