// Package focus records pomodoro work and break intervals.
package focus

import (
	"context"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/usecase"
)

const maxDurationMinutes = 24 * 60

type StartInput struct {
	DeadlineID      *string
	DurationMinutes int
	SessionType     domain.SessionType
}

type ListFilter struct {
	DeadlineID string
	Since      time.Time
	Limit      int
	Offset     int
}

type UseCase struct {
	deps usecase.Deps
}

func New(deps usecase.Deps) *UseCase {
	return &UseCase{deps: deps.Normalize()}
}

// Start records a running session. Duration defaults to the pomodoro length of the type.
func (uc *UseCase) Start(ctx context.Context, userID string, in StartInput) (*domain.FocusSession, error) {
	kind := in.SessionType
	if kind == "" {
		kind = domain.SessionWork
	}
	if !kind.Valid() {
		return nil, domain.Invalid("unknown session type %q", kind)
	}
	minutes := in.DurationMinutes
	if minutes == 0 {
		minutes = kind.DefaultMinutes()
	}
	if minutes < 0 || minutes > maxDurationMinutes {
		return nil, domain.Invalid("duration_minutes must be between 1 and %d", maxDurationMinutes)
	}
	if in.DeadlineID != nil && *in.DeadlineID != "" {
		d, err := uc.deps.Store.Deadlines.GetByID(ctx, *in.DeadlineID)
		if err != nil {
			return nil, err
		}
		if d.UserID != userID {
			return nil, domain.ErrDeadlineNotFound
		}
	} else {
		in.DeadlineID = nil
	}

	s := &domain.FocusSession{
		UserID:          userID,
		DeadlineID:      in.DeadlineID,
		DurationMinutes: minutes,
		StartedAt:       uc.deps.Now(),
		SessionType:     kind,
	}
	created, err := uc.deps.Store.FocusSessions.Create(ctx, s)
	if err != nil {
		if uc.buffer(ctx, err, usecase.OperationCreate, s) {
			return s, nil
		}
		return nil, err
	}
	return created, nil
}

// Complete stamps completed_at. A session completes once.
func (uc *UseCase) Complete(ctx context.Context, userID, id string) (*domain.FocusSession, error) {
	s, err := uc.deps.Store.FocusSessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, domain.ErrFocusSessionNotFound
	}
	if s.CompletedAt != nil {
		return nil, domain.ErrFocusSessionDone
	}

	now := uc.deps.Now()
	s.CompletedAt = &now
	if err := uc.deps.Store.FocusSessions.Update(ctx, s); err != nil {
		if !uc.buffer(ctx, err, usecase.OperationUpdate, s) {
			return nil, err
		}
	}
	uc.deps.InvalidateStats(ctx, userID)
	return s, nil
}

func (uc *UseCase) List(ctx context.Context, userID string, filter ListFilter) ([]domain.FocusSession, error) {
	return uc.deps.Store.FocusSessions.List(ctx, repository.FocusSessionFilter{
		UserID:     userID,
		DeadlineID: filter.DeadlineID,
		Since:      filter.Since,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

func (uc *UseCase) buffer(ctx context.Context, err error, operation string, s *domain.FocusSession) bool {
	return uc.deps.Buffered(err, "focus_session", operation, func(b usecase.OperationBuffer) error {
		return b.BufferFocusSession(ctx, operation, s)
	})
}
