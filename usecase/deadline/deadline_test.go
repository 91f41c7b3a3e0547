package deadline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/repository/local"
	"github.com/fastygo/deadliner/usecase"
)

var testNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

type recordingBuffer struct {
	deadlines []string
}

func (b *recordingBuffer) BufferProfile(context.Context, string, *domain.User) error { return nil }
func (b *recordingBuffer) BufferSubtask(context.Context, string, *domain.Subtask) error {
	return nil
}
func (b *recordingBuffer) BufferFocusSession(context.Context, string, *domain.FocusSession) error {
	return nil
}
func (b *recordingBuffer) BufferDeadline(_ context.Context, op string, _ *domain.Deadline) error {
	b.deadlines = append(b.deadlines, op)
	return nil
}

type countingCache struct {
	invalidated int
}

func (c *countingCache) Get(context.Context, string, string, any) (bool, error) { return false, nil }
func (c *countingCache) Set(context.Context, string, string, any) error         { return nil }
func (c *countingCache) Invalidate(context.Context, string) error {
	c.invalidated++
	return nil
}

type offlineDeadlines struct {
	repository.DeadlineRepository
}

func (offlineDeadlines) Create(context.Context, *domain.Deadline) (*domain.Deadline, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func newUseCase(t *testing.T) (*UseCase, usecase.Deps) {
	t.Helper()
	db, err := local.Open(filepath.Join(t.TempDir(), "deadliner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := usecase.Deps{
		Store: db.Store(),
		Clock: func() time.Time { return testNow },
	}
	return New(deps), deps
}

func mustCreate(t *testing.T, uc *UseCase, userID string, in CreateInput) *domain.Deadline {
	t.Helper()
	d, err := uc.Create(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Title, err)
	}
	return d
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", CreateInput{Title: "  ", DeadlineAt: testNow}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid title error, got %v", err)
	}
	if _, err := uc.Create(ctx, "u1", CreateInput{Title: "x"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected missing deadline_at error, got %v", err)
	}
	if _, err := uc.Create(ctx, "u1", CreateInput{Title: "x", DeadlineAt: testNow, Priority: "urgent"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid priority error, got %v", err)
	}
	if _, err := uc.Create(ctx, "u1", CreateInput{Title: "x", DeadlineAt: testNow, ParentID: ptr("missing")}); !errors.Is(err, domain.ErrDeadlineNotFound) {
		t.Fatalf("expected missing parent error, got %v", err)
	}

	d := mustCreate(t, uc, "u1", CreateInput{Title: " Ship ", DeadlineAt: testNow.Add(time.Hour), Description: ptr("")})
	if d.ID == "" || d.Title != "Ship" || d.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected deadline %+v", d)
	}
	if d.Description != nil || d.CompletedAt != nil {
		t.Fatalf("expected nil description and completed_at, got %+v", d)
	}
	if !d.CreatedAt.Equal(testNow) || !d.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected timestamps from clock, got %v/%v", d.CreatedAt, d.UpdatedAt)
	}
}

func TestGetHidesOtherUsers(t *testing.T) {
	uc, _ := newUseCase(t)
	d := mustCreate(t, uc, "u1", CreateInput{Title: "mine", DeadlineAt: testNow})

	if _, err := uc.Get(context.Background(), "u2", d.ID); !errors.Is(err, domain.ErrDeadlineNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	d := mustCreate(t, uc, "u1", CreateInput{Title: "draft", DeadlineAt: testNow, CategoryID: ptr("work")})

	high := domain.PriorityHigh
	got, err := uc.Update(ctx, "u1", d.ID, UpdateInput{Priority: &high, CategoryID: ptr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "draft" || got.Priority != domain.PriorityHigh || got.CategoryID != nil {
		t.Fatalf("unexpected update result %+v", got)
	}
	if _, err := uc.Update(ctx, "u1", d.ID, UpdateInput{ParentID: ptr(d.ID)}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected self-parent rejection, got %v", err)
	}
}

func TestCompleteBlockedByOpenChildren(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	parent := mustCreate(t, uc, "u1", CreateInput{Title: "launch", DeadlineAt: testNow.Add(72 * time.Hour)})
	child := mustCreate(t, uc, "u1", CreateInput{Title: "docs", DeadlineAt: testNow.Add(24 * time.Hour), ParentID: &parent.ID})

	if _, err := uc.Complete(ctx, "u1", parent.ID); !errors.Is(err, domain.ErrChildrenIncomplete) {
		t.Fatalf("expected children incomplete, got %v", err)
	}
	if _, err := uc.Complete(ctx, "u1", child.ID); err != nil {
		t.Fatalf("complete child: %v", err)
	}
	done, err := uc.Complete(ctx, "u1", parent.ID)
	if err != nil {
		t.Fatalf("complete parent: %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %v, got %v", testNow, done.CompletedAt)
	}

	reopened, err := uc.Reopen(ctx, "u1", parent.ID)
	if err != nil || reopened.CompletedAt != nil {
		t.Fatalf("expected reopened deadline, got %+v (%v)", reopened, err)
	}
}

func TestHierarchyQueries(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	parent := mustCreate(t, uc, "u1", CreateInput{Title: "parent", DeadlineAt: testNow.Add(72 * time.Hour)})
	mustCreate(t, uc, "u1", CreateInput{Title: "child", DeadlineAt: testNow.Add(time.Hour), ParentID: &parent.ID})
	mustCreate(t, uc, "u1", CreateInput{Title: "solo", DeadlineAt: testNow.Add(time.Hour)})

	children, err := uc.Children(ctx, "u1", parent.ID)
	if err != nil || len(children) != 1 || children[0].Title != "child" {
		t.Fatalf("unexpected children %+v (%v)", children, err)
	}
	got, err := uc.Parent(ctx, "u1", children[0].ID)
	if err != nil || got == nil || got.ID != parent.ID {
		t.Fatalf("unexpected parent %+v (%v)", got, err)
	}
	if none, err := uc.Parent(ctx, "u1", parent.ID); err != nil || none != nil {
		t.Fatalf("expected no parent for a root, got %+v (%v)", none, err)
	}
	roots, err := uc.Roots(ctx, "u1")
	if err != nil || len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d (%v)", len(roots), err)
	}
}

func TestListWindows(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	mustCreate(t, uc, "u1", CreateInput{Title: "overdue", DeadlineAt: testNow.Add(-time.Hour)})
	mustCreate(t, uc, "u1", CreateInput{Title: "soon", DeadlineAt: testNow.Add(2 * time.Hour)})
	mustCreate(t, uc, "u1", CreateInput{Title: "week", DeadlineAt: testNow.Add(3 * 24 * time.Hour)})
	mustCreate(t, uc, "u1", CreateInput{Title: "later", DeadlineAt: testNow.Add(10 * 24 * time.Hour)})
	done := mustCreate(t, uc, "u1", CreateInput{Title: "done", DeadlineAt: testNow.Add(time.Hour)})
	if _, err := uc.Complete(ctx, "u1", done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	cases := []struct {
		window Window
		want   []string
	}{
		{WindowAll, []string{"overdue", "done", "soon", "week", "later"}},
		{WindowUrgent, []string{"overdue", "soon"}},
		{WindowWeek, []string{"week"}},
		{WindowLater, []string{"later"}},
	}
	for _, tc := range cases {
		got, err := uc.List(ctx, "u1", ListFilter{Window: tc.window})
		if err != nil {
			t.Fatalf("list %s: %v", tc.window, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %d items", tc.window, tc.want, len(got))
		}
		for i, title := range tc.want {
			if got[i].Title != title {
				t.Errorf("%s[%d]: expected %s, got %s", tc.window, i, title, got[i].Title)
			}
		}
	}

	paged, _ := uc.List(ctx, "u1", ListFilter{Limit: 2, Offset: 1})
	if len(paged) != 2 || paged[0].Title != "done" {
		t.Fatalf("unexpected page %+v", paged)
	}
	if _, err := ParseWindow("tomorrow"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid window, got %v", err)
	}
}

func TestDeleteCascadesSubtasks(t *testing.T) {
	uc, deps := newUseCase(t)
	ctx := context.Background()
	d := mustCreate(t, uc, "u1", CreateInput{Title: "x", DeadlineAt: testNow})
	if _, err := deps.Store.Subtasks.Create(ctx, &domain.Subtask{DeadlineID: d.ID, UserID: "u1", Title: "step"}); err != nil {
		t.Fatalf("create subtask: %v", err)
	}

	if err := uc.Delete(ctx, "u1", d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, _ := deps.Store.Subtasks.List(ctx, repository.SubtaskFilter{DeadlineID: d.ID})
	if len(left) != 0 {
		t.Fatalf("expected subtasks removed, got %d", len(left))
	}
	if _, err := uc.Get(ctx, "u1", d.ID); !errors.Is(err, domain.ErrDeadlineNotFound) {
		t.Fatalf("expected deadline gone, got %v", err)
	}
}

func TestConvertSubtask(t *testing.T) {
	uc, deps := newUseCase(t)
	ctx := context.Background()
	parent := mustCreate(t, uc, "u1", CreateInput{Title: "release", DeadlineAt: testNow.Add(48 * time.Hour), Priority: domain.PriorityHigh, CategoryID: ptr("work")})
	st, err := deps.Store.Subtasks.Create(ctx, &domain.Subtask{DeadlineID: parent.ID, UserID: "u1", Title: "changelog", Completed: true})
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}

	child, err := uc.ConvertSubtask(ctx, "u1", st.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if child.Title != "changelog" || child.ParentID == nil || *child.ParentID != parent.ID {
		t.Fatalf("unexpected child %+v", child)
	}
	if !child.DeadlineAt.Equal(parent.DeadlineAt) || child.Priority != domain.PriorityHigh || *child.CategoryID != "work" {
		t.Fatalf("child did not inherit from parent: %+v", child)
	}
	if child.CompletedAt == nil {
		t.Fatal("expected converted child to be completed")
	}
	if _, err := deps.Store.Subtasks.GetByID(ctx, st.ID); !errors.Is(err, domain.ErrSubtaskNotFound) {
		t.Fatalf("expected subtask removed, got %v", err)
	}
}

func TestAutopsyRequiresOverdue(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	future := mustCreate(t, uc, "u1", CreateInput{Title: "future", DeadlineAt: testNow.Add(time.Hour)})
	past := mustCreate(t, uc, "u1", CreateInput{Title: "past", DeadlineAt: testNow.Add(-50 * time.Hour), Priority: domain.PriorityHigh})

	if _, err := uc.Autopsy(ctx, "u1", future.ID); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict for a pending deadline, got %v", err)
	}
	a, err := uc.Autopsy(ctx, "u1", past.ID)
	if err != nil {
		t.Fatalf("autopsy: %v", err)
	}
	if a.DaysOverdue != 2 || len(a.Findings) == 0 {
		t.Fatalf("unexpected autopsy %+v", a)
	}
}

func TestDescribe(t *testing.T) {
	uc, _ := newUseCase(t)
	views := uc.Describe([]domain.Deadline{
		{ID: "a", DeadlineAt: testNow.Add(2 * time.Hour), CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "b", DeadlineAt: testNow.Add(-time.Hour)},
	})
	if views[0].Status != domain.StatusImmediate || views[0].Countdown.Percentage != 50 {
		t.Fatalf("unexpected view %+v", views[0])
	}
	if views[1].Status != domain.StatusOverdue {
		t.Fatalf("expected overdue, got %s", views[1].Status)
	}
}

func TestWritesInvalidateCacheAndBufferWhenOffline(t *testing.T) {
	_, deps := newUseCase(t)
	buf := &recordingBuffer{}
	cache := &countingCache{}
	deps.Buffer = buf
	deps.Cache = cache

	online := New(deps)
	if _, err := online.Create(context.Background(), "u1", CreateInput{Title: "a", DeadlineAt: testNow}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.invalidated)
	}

	deps.Store.Deadlines = offlineDeadlines{DeadlineRepository: deps.Store.Deadlines}
	offline := New(deps)
	d, err := offline.Create(context.Background(), "u1", CreateInput{Title: "b", DeadlineAt: testNow})
	if err != nil {
		t.Fatalf("expected buffered create, got %v", err)
	}
	if d == nil || len(buf.deadlines) != 1 || buf.deadlines[0] != usecase.OperationCreate {
		t.Fatalf("expected one buffered create, got %v", buf.deadlines)
	}
}

func ptr[T any](v T) *T {
	return &v
}
