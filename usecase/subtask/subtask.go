package subtask

import (
	"context"
	"strings"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/usecase"
)

type CreateInput struct {
	Title      string
	DueAt      *time.Time
	OrderIndex *int
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title     *string
	Completed *bool
	DueAt     *time.Time
}

type UseCase struct {
	deps usecase.Deps
}

func New(deps usecase.Deps) *UseCase {
	return &UseCase{deps: deps.Normalize()}
}

// List returns the subtasks of a deadline ordered by order_index.
func (uc *UseCase) List(ctx context.Context, userID, deadlineID string) ([]domain.Subtask, error) {
	if _, err := uc.owner(ctx, userID, deadlineID); err != nil {
		return nil, err
	}
	return uc.deps.Store.Subtasks.List(ctx, repository.SubtaskFilter{UserID: userID, DeadlineID: deadlineID})
}

func (uc *UseCase) Get(ctx context.Context, userID, id string) (*domain.Subtask, error) {
	st, err := uc.deps.Store.Subtasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID {
		return nil, domain.ErrSubtaskNotFound
	}
	return st, nil
}

// Create appends the subtask after the existing ones unless an index is given.
func (uc *UseCase) Create(ctx context.Context, userID, deadlineID string, in CreateInput) (*domain.Subtask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	if _, err := uc.owner(ctx, userID, deadlineID); err != nil {
		return nil, err
	}

	order := 0
	if in.OrderIndex != nil {
		order = *in.OrderIndex
	} else {
		existing, err := uc.deps.Store.Subtasks.List(ctx, repository.SubtaskFilter{DeadlineID: deadlineID})
		if err != nil {
			return nil, err
		}
		for _, s := range existing {
			order = max(order, s.OrderIndex+1)
		}
	}

	now := uc.deps.Now()
	st := &domain.Subtask{
		DeadlineID: deadlineID,
		UserID:     userID,
		Title:      title,
		DueAt:      in.DueAt,
		OrderIndex: order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := uc.deps.Store.Subtasks.Create(ctx, st)
	if err != nil {
		if uc.buffer(ctx, err, usecase.OperationCreate, st) {
			return st, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, userID, id string, in UpdateInput) (*domain.Subtask, error) {
	st, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Invalid("title is required")
		}
		st.Title = title
	}
	if in.Completed != nil {
		st.Completed = *in.Completed
	}
	if in.DueAt != nil {
		st.DueAt = in.DueAt
	}
	if err := uc.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Toggle flips the completed flag.
func (uc *UseCase) Toggle(ctx context.Context, userID, id string) (*domain.Subtask, error) {
	st, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	st.Completed = !st.Completed
	if err := uc.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	st, err := uc.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := uc.deps.Store.Subtasks.Delete(ctx, id); err != nil {
		if !uc.buffer(ctx, err, usecase.OperationDelete, st) {
			return err
		}
	}
	return nil
}

// Reorder assigns order_index by position in orderedIDs. Unknown ids are ignored and
// subtasks missing from the list keep their index.
func (uc *UseCase) Reorder(ctx context.Context, userID, deadlineID string, orderedIDs []string) ([]domain.Subtask, error) {
	current, err := uc.List(ctx, userID, deadlineID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Subtask, len(current))
	for i := range current {
		byID[current[i].ID] = &current[i]
	}
	for pos, id := range orderedIDs {
		st, ok := byID[id]
		if !ok || st.OrderIndex == pos {
			continue
		}
		st.OrderIndex = pos
		if err := uc.save(ctx, st); err != nil {
			return nil, err
		}
	}
	return uc.deps.Store.Subtasks.List(ctx, repository.SubtaskFilter{UserID: userID, DeadlineID: deadlineID})
}

func (uc *UseCase) owner(ctx context.Context, userID, deadlineID string) (*domain.Deadline, error) {
	d, err := uc.deps.Store.Deadlines.GetByID(ctx, deadlineID)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, domain.ErrDeadlineNotFound
	}
	return d, nil
}

func (uc *UseCase) save(ctx context.Context, st *domain.Subtask) error {
	st.UpdatedAt = uc.deps.Now()
	if err := uc.deps.Store.Subtasks.Update(ctx, st); err != nil {
		if !uc.buffer(ctx, err, usecase.OperationUpdate, st) {
			return err
		}
	}
	return nil
}

func (uc *UseCase) buffer(ctx context.Context, err error, operation string, st *domain.Subtask) bool {
	return uc.deps.Buffered(err, "subtask", operation, func(b usecase.OperationBuffer) error {
		return b.BufferSubtask(ctx, operation, st)
	})
}
