package profile

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/repository/local"
	"github.com/fastygo/deadliner/usecase"
)

type offlineUsers struct {
	repository.UserRepository
}

func (offlineUsers) Upsert(context.Context, *domain.User) error {
	return errors.New("i/o timeout")
}

type profileBuffer struct {
	users []*domain.User
}

func (b *profileBuffer) BufferProfile(_ context.Context, _ string, user *domain.User) error {
	b.users = append(b.users, user)
	return nil
}
func (b *profileBuffer) BufferDeadline(context.Context, string, *domain.Deadline) error { return nil }
func (b *profileBuffer) BufferSubtask(context.Context, string, *domain.Subtask) error   { return nil }
func (b *profileBuffer) BufferFocusSession(context.Context, string, *domain.FocusSession) error {
	return nil
}

func newStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := local.Open(filepath.Join(t.TempDir(), "deadliner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db.Store()
}

func TestEnsureCreatesActiveUser(t *testing.T) {
	uc := New(usecase.Deps{Store: newStore(t)})
	ctx := context.Background()

	if _, err := uc.GetProfile(ctx, "local"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected missing user, got %v", err)
	}
	user, err := uc.Ensure(ctx, "local")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !user.IsActive() || user.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", user)
	}
	again, err := uc.Ensure(ctx, "local")
	if err != nil || !again.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("expected existing user to be returned, got %+v (%v)", again, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	uc := New(usecase.Deps{Store: newStore(t)})
	ctx := context.Background()

	name, avatar := "  Ada  ", "https://example.com/a.png"
	user, err := uc.UpdateProfile(ctx, "u1", Input{DisplayName: &name, AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.DisplayName == nil || *user.DisplayName != "Ada" || *user.AvatarURL != avatar {
		t.Fatalf("unexpected profile %+v", user)
	}

	empty := ""
	user, _ = uc.UpdateProfile(ctx, "u1", Input{AvatarURL: &empty})
	if user.AvatarURL != nil || user.DisplayName == nil {
		t.Fatalf("expected avatar cleared and name kept, got %+v", user)
	}

	long := strings.Repeat("x", maxDisplayNameLength+1)
	if _, err := uc.UpdateProfile(ctx, "u1", Input{DisplayName: &long}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid display name, got %v", err)
	}
}

func TestUpdateProfileBuffersWhenOffline(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	if _, err := New(usecase.Deps{Store: store}).Ensure(ctx, "u1"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	store.Users = offlineUsers{UserRepository: store.Users}
	buf := &profileBuffer{}
	name := "Grace"
	user, err := New(usecase.Deps{Store: store, Buffer: buf}).UpdateProfile(ctx, "u1", Input{DisplayName: &name})
	if err != nil {
		t.Fatalf("expected buffered update, got %v", err)
	}
	if len(buf.users) != 1 || buf.users[0] != user {
		t.Fatalf("expected profile to be buffered, got %d entries", len(buf.users))
	}
}
