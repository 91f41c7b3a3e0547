package subtask

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

func setup(t *testing.T) (*UseCase, repository.Store, *domain.Deadline) {
	t.Helper()
	db, err := local.Open(filepath.Join(t.TempDir(), "deadliner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := db.Store()
	d, err := store.Deadlines.Create(context.Background(), &domain.Deadline{
		UserID:     "u1",
		Title:      "release",
		DeadlineAt: testNow.Add(48 * time.Hour),
		Priority:   domain.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("create deadline: %v", err)
	}
	uc := New(usecase.Deps{Store: store, Clock: func() time.Time { return testNow }})
	return uc, store, d
}

func titles(subtasks []domain.Subtask) []string {
	out := make([]string, len(subtasks))
	for i, s := range subtasks {
		out[i] = s.Title
	}
	return out
}

func TestCreateAppendsInOrder(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()

	for _, title := range []string{"draft", "review", "publish"} {
		if _, err := uc.Create(ctx, "u1", d.ID, CreateInput{Title: title}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	got, err := uc.List(ctx, "u1", d.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].Title != "draft" || got[2].Title != "publish" || got[2].OrderIndex != 2 {
		t.Fatalf("unexpected order %v", titles(got))
	}

	if _, err := uc.Create(ctx, "u1", d.ID, CreateInput{Title: " "}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid title, got %v", err)
	}
	if _, err := uc.Create(ctx, "u2", d.ID, CreateInput{Title: "intrude"}); !errors.Is(err, domain.ErrDeadlineNotFound) {
		t.Fatalf("expected foreign deadline to be hidden, got %v", err)
	}
}

func TestToggleAndUpdate(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()
	st, err := uc.Create(ctx, "u1", d.ID, CreateInput{Title: "draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, err := uc.Toggle(ctx, "u1", st.ID)
	if err != nil || !toggled.Completed {
		t.Fatalf("expected completed subtask, got %+v (%v)", toggled, err)
	}
	toggled, _ = uc.Toggle(ctx, "u1", st.ID)
	if toggled.Completed {
		t.Fatal("expected second toggle to reopen")
	}

	title := "final draft"
	updated, err := uc.Update(ctx, "u1", st.ID, UpdateInput{Title: &title})
	if err != nil || updated.Title != title || updated.Completed {
		t.Fatalf("unexpected update %+v (%v)", updated, err)
	}
	if _, err := uc.Update(ctx, "u2", st.ID, UpdateInput{Title: &title}); !errors.Is(err, domain.ErrSubtaskNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestReorder(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		st, err := uc.Create(ctx, "u1", d.ID, CreateInput{Title: title})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, st.ID)
	}

	got, err := uc.Reorder(ctx, "u1", d.ID, []string{ids[2], ids[0], "unknown", ids[1]})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, title := range titles(got) {
		if title != want[i] {
			t.Fatalf("expected %v, got %v", want, titles(got))
		}
	}
}

func TestDelete(t *testing.T) {
	uc, store, d := setup(t)
	ctx := context.Background()
	st, _ := uc.Create(ctx, "u1", d.ID, CreateInput{Title: "a"})

	if err := uc.Delete(ctx, "u1", st.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Subtasks.GetByID(ctx, st.ID); !errors.Is(err, domain.ErrSubtaskNotFound) {
		t.Fatalf("expected subtask gone, got %v", err)
	}
}
