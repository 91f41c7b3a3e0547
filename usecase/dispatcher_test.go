package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/fastygo/deadliner/domain"
)

func TestDispatcherRoutesByKind(t *testing.T) {
	d := NewDispatcher()
	d.RegisterQuery("count", func(ctx context.Context, req Request) (any, error) {
		return req.IntArg("n", 0) + 1, nil
	})
	d.RegisterCommand("echo", func(ctx context.Context, req Request) (any, error) {
		return req.StringArg("value", "none"), nil
	})

	ctx := context.Background()
	got, err := d.ExecuteQuery(ctx, "count", Request{UserID: "u1", Args: map[string]any{"n": 2.0}})
	if err != nil || got != 3 {
		t.Fatalf("expected 3, got %v (%v)", got, err)
	}
	got, err = d.ExecuteCommand(ctx, "echo", Request{UserID: "u1"})
	if err != nil || got != "none" {
		t.Fatalf("expected fallback, got %v (%v)", got, err)
	}

	if _, err := d.ExecuteCommand(ctx, "count", Request{UserID: "u1"}); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected queries to be invisible to ExecuteCommand, got %v", err)
	}
	if !slices.Equal(d.Names(), []string{"count", "echo"}) {
		t.Fatalf("unexpected names %v", d.Names())
	}
}

func TestDispatcherRequiresUser(t *testing.T) {
	d := NewDispatcher()
	d.RegisterQuery("q", func(ctx context.Context, req Request) (any, error) {
		t.Fatal("handler must not run without a user")
		return nil, nil
	})
	if _, err := d.ExecuteQuery(context.Background(), "q", Request{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
