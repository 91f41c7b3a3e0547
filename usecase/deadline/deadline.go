// Package deadline implements the deadline lifecycle: listing, editing, nesting and completion.
package deadline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/stats"
	"github.com/fastygo/deadliner/usecase"
)

const maxTitleLength = 200

var errNotOverdue = domain.NewError(domain.ErrCodeConflict, "deadline is not overdue")

type CreateInput struct {
	Title       string
	Description *string
	DeadlineAt  time.Time
	Priority    domain.Priority
	CategoryID  *string
	ParentID    *string
}

// UpdateInput is a partial update. Nil fields are left untouched; an empty string clears
// Description, CategoryID or ParentID.
type UpdateInput struct {
	Title       *string
	Description *string
	DeadlineAt  *time.Time
	Priority    *domain.Priority
	CategoryID  *string
	ParentID    *string
}

// View decorates a deadline with its urgency at a given instant.
type View struct {
	domain.Deadline
	Status    domain.DeadlineStatus `json:"status"`
	Countdown domain.Countdown      `json:"countdown"`
}

type UseCase struct {
	deps usecase.Deps
}

func New(deps usecase.Deps) *UseCase {
	return &UseCase{deps: deps.Normalize()}
}

// Describe attaches status and countdown computed at the use case clock.
func (uc *UseCase) Describe(deadlines []domain.Deadline) []View {
	now := uc.deps.Now()
	out := make([]View, len(deadlines))
	for i := range deadlines {
		out[i] = View{
			Deadline:  deadlines[i],
			Status:    deadlines[i].Status(now),
			Countdown: deadlines[i].Countdown(now),
		}
	}
	return out
}

func (uc *UseCase) List(ctx context.Context, userID string, filter ListFilter) ([]domain.Deadline, error) {
	all, err := uc.deps.Store.Deadlines.List(ctx, repository.DeadlineFilter{
		UserID:     userID,
		CategoryID: filter.CategoryID,
		ParentID:   filter.ParentID,
		RootsOnly:  filter.RootsOnly,
	})
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	out := all[:0]
	for i := range all {
		if filter.Window.Match(&all[i], now) {
			out = append(out, all[i])
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Deadline{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Get returns the deadline when it belongs to userID.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*domain.Deadline, error) {
	d, err := uc.deps.Store.Deadlines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, domain.ErrDeadlineNotFound
	}
	return d, nil
}

func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Deadline, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if in.DeadlineAt.IsZero() {
		return nil, domain.Invalid("deadline_at is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.Invalid("unknown priority %q", priority)
	}

	d := &domain.Deadline{
		UserID:      userID,
		Title:       title,
		Description: emptyToNil(in.Description),
		DeadlineAt:  in.DeadlineAt.UTC(),
		Priority:    priority,
		CategoryID:  emptyToNil(in.CategoryID),
		ParentID:    emptyToNil(in.ParentID),
	}
	if d.ParentID != nil {
		if _, err := uc.Get(ctx, userID, *d.ParentID); err != nil {
			return nil, err
		}
	}
	d.Touch(uc.deps.Now())

	created, err := uc.deps.Store.Deadlines.Create(ctx, d)
	if err != nil {
		if uc.buffer(ctx, err, usecase.OperationCreate, d) {
			return d, nil
		}
		return nil, err
	}
	uc.deps.InvalidateStats(ctx, userID)
	uc.deps.Logger.Debug("deadline created", zap.String("deadline_id", created.ID))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, userID, id string, in UpdateInput) (*domain.Deadline, error) {
	d, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		d.Title = title
	}
	if in.Description != nil {
		d.Description = emptyToNil(in.Description)
	}
	if in.DeadlineAt != nil {
		if in.DeadlineAt.IsZero() {
			return nil, domain.Invalid("deadline_at is required")
		}
		d.DeadlineAt = in.DeadlineAt.UTC()
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, domain.Invalid("unknown priority %q", *in.Priority)
		}
		d.Priority = *in.Priority
	}
	if in.CategoryID != nil {
		d.CategoryID = emptyToNil(in.CategoryID)
	}
	if in.ParentID != nil {
		parentID := emptyToNil(in.ParentID)
		if parentID != nil {
			if *parentID == d.ID {
				return nil, domain.Invalid("a deadline cannot be its own parent")
			}
			if _, err := uc.Get(ctx, userID, *parentID); err != nil {
				return nil, err
			}
		}
		d.ParentID = parentID
	}

	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the deadline and its subtasks. Child deadlines keep their parent link.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	d, err := uc.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := uc.deps.Store.Subtasks.DeleteByDeadline(ctx, id); err != nil {
		return err
	}
	if err := uc.deps.Store.Deadlines.Delete(ctx, id); err != nil {
		if !uc.buffer(ctx, err, usecase.OperationDelete, d) {
			return err
		}
	}
	uc.deps.InvalidateStats(ctx, userID)
	return nil
}

// Complete marks the deadline done. It fails with ErrChildrenIncomplete while any direct
// child deadline is still open.
func (uc *UseCase) Complete(ctx context.Context, userID, id string) (*domain.Deadline, error) {
	d, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d.IsCompleted() {
		return d, nil
	}
	children, err := uc.deps.Store.Deadlines.List(ctx, repository.DeadlineFilter{UserID: userID, ParentID: id})
	if err != nil {
		return nil, err
	}
	if !domain.NewTree(append(children, *d)).CanComplete(id) {
		return nil, domain.ErrChildrenIncomplete
	}

	now := uc.deps.Now()
	d.CompletedAt = &now
	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *UseCase) Reopen(ctx context.Context, userID, id string) (*domain.Deadline, error) {
	d, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !d.IsCompleted() {
		return d, nil
	}
	d.CompletedAt = nil
	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Children returns the direct children of id.
func (uc *UseCase) Children(ctx context.Context, userID, id string) ([]domain.Deadline, error) {
	tree, err := uc.tree(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Get(id); !ok {
		return nil, domain.ErrDeadlineNotFound
	}
	return tree.Children(id), nil
}

// Parent returns the parent of id, or nil for a top-level deadline.
func (uc *UseCase) Parent(ctx context.Context, userID, id string) (*domain.Deadline, error) {
	tree, err := uc.tree(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Get(id); !ok {
		return nil, domain.ErrDeadlineNotFound
	}
	parent, ok := tree.Parent(id)
	if !ok {
		return nil, nil
	}
	return &parent, nil
}

func (uc *UseCase) Roots(ctx context.Context, userID string) ([]domain.Deadline, error) {
	tree, err := uc.tree(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.Roots(), nil
}

// ConvertSubtask promotes a subtask into a child deadline of its owner. The new deadline
// inherits due instant, priority and category, and is completed when the subtask was.
func (uc *UseCase) ConvertSubtask(ctx context.Context, userID, subtaskID string) (*domain.Deadline, error) {
	st, err := uc.deps.Store.Subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID {
		return nil, domain.ErrSubtaskNotFound
	}
	parent, err := uc.Get(ctx, userID, st.DeadlineID)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	child := &domain.Deadline{
		UserID:     userID,
		Title:      st.Title,
		DeadlineAt: parent.DeadlineAt,
		Priority:   parent.Priority,
		CategoryID: parent.CategoryID,
		ParentID:   &parent.ID,
	}
	if st.Completed {
		child.CompletedAt = &now
	}
	child.Touch(now)

	created, err := uc.deps.Store.Deadlines.Create(ctx, child)
	if err != nil {
		return nil, err
	}
	if err := uc.deps.Store.Subtasks.Delete(ctx, st.ID); err != nil {
		return nil, err
	}
	uc.deps.InvalidateStats(ctx, userID)
	return created, nil
}

// Autopsy explains why an overdue deadline was missed.
func (uc *UseCase) Autopsy(ctx context.Context, userID, id string) (*stats.Autopsy, error) {
	d, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := uc.deps.Now()
	if !d.IsOverdue(now) {
		return nil, errNotOverdue
	}
	subtasks, err := uc.deps.Store.Subtasks.List(ctx, repository.SubtaskFilter{DeadlineID: id})
	if err != nil {
		return nil, err
	}
	a := stats.ComputeAutopsy(*d, subtasks, now)
	return &a, nil
}

func (uc *UseCase) tree(ctx context.Context, userID string) (*domain.Tree, error) {
	all, err := uc.deps.Store.Deadlines.List(ctx, repository.DeadlineFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return domain.NewTree(all), nil
}

func (uc *UseCase) save(ctx context.Context, d *domain.Deadline) error {
	d.Touch(uc.deps.Now())
	if err := uc.deps.Store.Deadlines.Update(ctx, d); err != nil {
		if !uc.buffer(ctx, err, usecase.OperationUpdate, d) {
			return err
		}
	}
	uc.deps.InvalidateStats(ctx, d.UserID)
	return nil
}

func (uc *UseCase) buffer(ctx context.Context, err error, operation string, d *domain.Deadline) bool {
	return uc.deps.Buffered(err, "deadline", operation, func(b usecase.OperationBuffer) error {
		return b.BufferDeadline(ctx, operation, d)
	})
}

func validateTitle(title string) error {
	if title == "" {
		return domain.Invalid("title is required")
	}
	if len(title) > maxTitleLength {
		return domain.Invalid("title must be at most %d characters", maxTitleLength)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
