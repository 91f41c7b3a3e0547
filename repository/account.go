package repository

import (
	"context"
	"time"

	"github.com/fastygo/deadliner/domain"
)

// UserRepository persists the account row owning every other record.
// Upsert creates the user on first sight, which is how local mode bootstraps its single user.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}

// SessionRepository stores login sessions for remote mode.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	// Extend pushes the expiry ttl past now; a non-positive ttl uses the store default.
	Extend(ctx context.Context, id string, ttl time.Duration) error
}
