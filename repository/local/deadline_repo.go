package local

import (
	"cmp"
	"context"
	"slices"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

type deadlineRepository struct {
	items collection[domain.Deadline]
}

// NewDeadlineRepository returns a bbolt-backed DeadlineRepository.
func NewDeadlineRepository(db *DB) repository.DeadlineRepository {
	return &deadlineRepository{items: collection[domain.Deadline]{
		db:       db,
		bucket:   bucketDeadlines,
		id:       func(d *domain.Deadline) *string { return &d.ID },
		notFound: domain.ErrDeadlineNotFound,
	}}
}

func (r *deadlineRepository) GetByID(_ context.Context, id string) (*domain.Deadline, error) {
	return r.items.get(id)
}

func (r *deadlineRepository) List(_ context.Context, filter repository.DeadlineFilter) ([]domain.Deadline, error) {
	out, err := r.items.all(func(d *domain.Deadline) bool {
		if filter.UserID != "" && d.UserID != filter.UserID {
			return false
		}
		if filter.CategoryID != "" && (d.CategoryID == nil || *d.CategoryID != filter.CategoryID) {
			return false
		}
		if filter.ParentID != "" && (d.ParentID == nil || *d.ParentID != filter.ParentID) {
			return false
		}
		return !filter.RootsOnly || d.ParentID == nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.Deadline) int {
		if c := a.DeadlineAt.Compare(b.DeadlineAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *deadlineRepository) Create(_ context.Context, deadline *domain.Deadline) (*domain.Deadline, error) {
	if deadline == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := r.items.put(deadline, false); err != nil {
		return nil, err
	}
	return deadline, nil
}

func (r *deadlineRepository) Update(_ context.Context, deadline *domain.Deadline) error {
	if deadline == nil || deadline.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.items.put(deadline, true)
}

func (r *deadlineRepository) Upsert(_ context.Context, deadline *domain.Deadline) error {
	if deadline == nil {
		return domain.ErrInvalidPayload
	}
	return r.items.upsert(deadline, func(v *domain.Deadline) string { return v.UserID })
}

func (r *deadlineRepository) Delete(_ context.Context, id string) error {
	return r.items.delete(id)
}

func (r *deadlineRepository) DetachCategory(_ context.Context, userID, categoryID string) error {
	return r.items.rewrite(func(d *domain.Deadline) (bool, bool) {
		if d.UserID != userID || d.CategoryID == nil || *d.CategoryID != categoryID {
			return false, false
		}
		d.CategoryID = nil
		return true, false
	})
}
