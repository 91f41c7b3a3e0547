package cloudsync

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

var syncNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T, name string) repository.Store {
	t.Helper()
	db, err := local.Open(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db.Store()
}

func seed(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()
	d, err := store.Deadlines.Create(ctx, &domain.Deadline{UserID: "local", Title: "a", DeadlineAt: syncNow})
	if err != nil {
		t.Fatalf("seed deadline: %v", err)
	}
	if _, err := store.Subtasks.Create(ctx, &domain.Subtask{DeadlineID: d.ID, UserID: "local", Title: "s"}); err != nil {
		t.Fatalf("seed subtask: %v", err)
	}
	if _, err := store.FocusSessions.Create(ctx, &domain.FocusSession{UserID: "local", StartedAt: syncNow, DurationMinutes: 25, SessionType: domain.SessionWork}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestPushCopiesUnderRemoteUser(t *testing.T) {
	localStore, remote := openStore(t, "local.db"), openStore(t, "remote.db")
	seed(t, localStore)
	uc := New(localStore, remote, "local", usecase.Deps{Clock: func() time.Time { return syncNow }})
	ctx := context.Background()

	report, err := uc.Push(ctx, "cloud-user")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if report.Deadlines != 1 || report.Subtasks != 1 || report.FocusSessions != 1 || !report.At.Equal(syncNow) {
		t.Fatalf("unexpected report %+v", report)
	}

	got, _ := remote.Deadlines.List(ctx, repository.DeadlineFilter{UserID: "cloud-user"})
	if len(got) != 1 {
		t.Fatalf("expected remote deadline under cloud-user, got %d", len(got))
	}

	if _, err := uc.Push(ctx, "cloud-user"); err != nil {
		t.Fatalf("second push: %v", err)
	}
	again, _ := remote.Deadlines.List(ctx, repository.DeadlineFilter{})
	if len(again) != 1 {
		t.Fatalf("expected push to be idempotent, got %d deadlines", len(again))
	}

	last, err := uc.LastSync(ctx)
	if err != nil || !last.Equal(syncNow) {
		t.Fatalf("expected last sync %v, got %v (%v)", syncNow, last, err)
	}
}

func TestPushEmptyStore(t *testing.T) {
	uc := New(openStore(t, "local.db"), openStore(t, "remote.db"), "local", usecase.Deps{})
	report, err := uc.Push(context.Background(), "cloud-user")
	if err != nil || !report.Empty() {
		t.Fatalf("expected empty report, got %+v (%v)", report, err)
	}
	last, _ := uc.LastSync(context.Background())
	if !last.IsZero() {
		t.Fatalf("expected no sync recorded, got %v", last)
	}
}

func TestPushPreconditions(t *testing.T) {
	ctx := context.Background()
	if _, err := New(openStore(t, "local.db"), repository.Store{}, "local", usecase.Deps{}).Push(ctx, "u"); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}
	uc := New(openStore(t, "a.db"), openStore(t, "b.db"), "local", usecase.Deps{})
	if _, err := uc.Push(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestPushBindsLocalStoreToFirstAccount(t *testing.T) {
	localStore, remote := openStore(t, "local.db"), openStore(t, "remote.db")
	seed(t, localStore)
	uc := New(localStore, remote, "local", usecase.Deps{Clock: func() time.Time { return syncNow }})
	ctx := context.Background()

	if _, err := uc.Push(ctx, "alice"); err != nil {
		t.Fatalf("push as alice: %v", err)
	}
	if _, err := uc.Push(ctx, "mallory"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for a second account, got %v", err)
	}

	alice, _ := remote.Deadlines.List(ctx, repository.DeadlineFilter{UserID: "alice"})
	mallory, _ := remote.Deadlines.List(ctx, repository.DeadlineFilter{UserID: "mallory"})
	if len(alice) != 1 || len(mallory) != 0 {
		t.Fatalf("expected alice=1 mallory=0, got alice=%d mallory=%d", len(alice), len(mallory))
	}

	if _, err := uc.Push(ctx, "alice"); err != nil {
		t.Fatalf("repeat push as alice: %v", err)
	}
}

func TestPushNeverReassignsRemoteRecords(t *testing.T) {
	ctx := context.Background()
	remote := openStore(t, "remote.db")
	first, second := openStore(t, "first.db"), openStore(t, "second.db")

	d := &domain.Deadline{ID: "shared", UserID: "local", Title: "a", DeadlineAt: syncNow}
	for _, store := range []repository.Store{first, second} {
		copyOf := *d
		if err := store.Deadlines.Upsert(ctx, &copyOf); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	deps := usecase.Deps{Clock: func() time.Time { return syncNow }}
	if _, err := New(first, remote, "local", deps).Push(ctx, "alice"); err != nil {
		t.Fatalf("push as alice: %v", err)
	}
	if _, err := New(second, remote, "local", deps).Push(ctx, "mallory"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden on a foreign id, got %v", err)
	}

	got, err := remote.Deadlines.GetByID(ctx, "shared")
	if err != nil || got.UserID != "alice" {
		t.Fatalf("expected alice to keep the record, got %+v (%v)", got, err)
	}
}
