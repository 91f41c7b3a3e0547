package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/internal/infrastructure/buffer"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/repository/local"
	"github.com/fastygo/deadliner/usecase"
)

type switchMonitor struct {
	online bool
}

func (m *switchMonitor) IsOnline() bool { return m.online }

type invalidations struct {
	users []string
}

func (c *invalidations) Get(context.Context, string, string, any) (bool, error) { return false, nil }
func (c *invalidations) Set(context.Context, string, string, any) error         { return nil }
func (c *invalidations) Invalidate(_ context.Context, userID string) error {
	c.users = append(c.users, userID)
	return nil
}

func setup(t *testing.T) (*BufferProcessor, *buffer.Store, repository.Store, *switchMonitor, *invalidations) {
	t.Helper()
	dir := t.TempDir()
	queue, err := buffer.Open(filepath.Join(dir, "buffer.db"), buffer.Options{})
	if err != nil {
		t.Fatalf("open buffer: %v", err)
	}
	t.Cleanup(func() { _ = queue.Close() })
	db, err := local.Open(filepath.Join(dir, "primary.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	monitor := &switchMonitor{}
	cache := &invalidations{}
	bp := NewBufferProcessor(queue, monitor, db.Store(), cache, nil, ProcessorConfig{MaxRetries: 2})
	return bp, queue, db.Store(), monitor, cache
}

func TestBufferedWritesReplayWhenOnline(t *testing.T) {
	bp, queue, store, monitor, cache := setup(t)
	bridge := NewBufferBridge(bp)
	ctx := context.Background()

	d := &domain.Deadline{UserID: "u1", Title: "offline", DeadlineAt: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)}
	if err := bridge.BufferDeadline(ctx, usecase.OperationCreate, d); err != nil {
		t.Fatalf("buffer deadline: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected the bridge to assign an id")
	}
	st := &domain.Subtask{DeadlineID: d.ID, UserID: "u1", Title: "step"}
	if err := bridge.BufferSubtask(ctx, usecase.OperationCreate, st); err != nil {
		t.Fatalf("buffer subtask: %v", err)
	}
	if bp.Size() != 2 {
		t.Fatalf("expected 2 buffered writes, got %d", bp.Size())
	}

	if err := bp.Drain(ctx); err != nil {
		t.Fatalf("offline drain: %v", err)
	}
	if bp.Size() != 2 {
		t.Fatal("offline drain must not touch the buffer")
	}

	monitor.online = true
	if err := bp.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if size, _ := queue.Size(); size != 0 {
		t.Fatalf("expected empty buffer, got %d", size)
	}
	got, err := store.Deadlines.GetByID(ctx, d.ID)
	if err != nil || got.Title != "offline" {
		t.Fatalf("expected replayed deadline, got %+v (%v)", got, err)
	}
	if _, err := store.Subtasks.GetByID(ctx, st.ID); err != nil {
		t.Fatalf("expected replayed subtask: %v", err)
	}
	if len(cache.users) != 1 || cache.users[0] != "u1" {
		t.Fatalf("expected one stats invalidation for u1, got %v", cache.users)
	}
}

func TestBufferedDeleteOfMissingRecordSucceeds(t *testing.T) {
	bp, _, _, monitor, _ := setup(t)
	monitor.online = true
	err := NewBufferBridge(bp).BufferSubtask(context.Background(), usecase.OperationDelete, &domain.Subtask{ID: "gone", UserID: "u1"})
	if err != nil {
		t.Fatalf("expected missing record delete to be accepted, got %v", err)
	}
	if bp.Size() != 0 {
		t.Fatalf("expected nothing buffered, got %d", bp.Size())
	}
}

func TestUnreplayableItemsAreDropped(t *testing.T) {
	bp, queue, _, monitor, _ := setup(t)
	ctx := context.Background()
	if err := queue.Enqueue(buffer.Item{ID: "x", Entity: "unknown", Operation: usecase.OperationCreate}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := queue.Enqueue(buffer.Item{ID: "bad", Entity: buffer.EntityDeadline, Operation: usecase.OperationCreate, Data: []byte("{")}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	monitor.online = true
	if err := bp.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if bp.Size() != 0 {
		t.Fatalf("expected invalid items dropped, got %d left", bp.Size())
	}
}

func TestBridgeRejectsNil(t *testing.T) {
	bridge := NewBufferBridge(nil)
	if err := bridge.BufferDeadline(context.Background(), usecase.OperationCreate, nil); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}
