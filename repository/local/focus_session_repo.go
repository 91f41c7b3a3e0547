package local

import (
	"context"
	"slices"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

type focusSessionRepository struct {
	items collection[domain.FocusSession]
}

// NewFocusSessionRepository returns a bbolt-backed FocusSessionRepository.
func NewFocusSessionRepository(db *DB) repository.FocusSessionRepository {
	return &focusSessionRepository{items: collection[domain.FocusSession]{
		db:       db,
		bucket:   bucketFocusSessions,
		id:       func(s *domain.FocusSession) *string { return &s.ID },
		notFound: domain.ErrFocusSessionNotFound,
	}}
}

func (r *focusSessionRepository) GetByID(_ context.Context, id string) (*domain.FocusSession, error) {
	return r.items.get(id)
}

func (r *focusSessionRepository) List(_ context.Context, filter repository.FocusSessionFilter) ([]domain.FocusSession, error) {
	out, err := r.items.all(func(s *domain.FocusSession) bool {
		if filter.UserID != "" && s.UserID != filter.UserID {
			return false
		}
		if filter.DeadlineID != "" && (s.DeadlineID == nil || *s.DeadlineID != filter.DeadlineID) {
			return false
		}
		return filter.Since.IsZero() || !s.StartedAt.Before(filter.Since)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.FocusSession) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *focusSessionRepository) Create(_ context.Context, session *domain.FocusSession) (*domain.FocusSession, error) {
	if session == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := r.items.put(session, false); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *focusSessionRepository) Update(_ context.Context, session *domain.FocusSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.items.put(session, true)
}

func (r *focusSessionRepository) Upsert(_ context.Context, session *domain.FocusSession) error {
	if session == nil {
		return domain.ErrInvalidPayload
	}
	return r.items.upsert(session, func(v *domain.FocusSession) string { return v.UserID })
}
