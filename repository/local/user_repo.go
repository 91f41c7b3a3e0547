package local

import (
	"context"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

type userRepository struct {
	items collection[domain.User]
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{items: collection[domain.User]{
		db:       db,
		bucket:   bucketUsers,
		id:       func(u *domain.User) *string { return &u.ID },
		notFound: domain.ErrUserNotFound,
	}}
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.items.get(id)
}

func (r *userRepository) Upsert(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	return r.items.put(user, false)
}
