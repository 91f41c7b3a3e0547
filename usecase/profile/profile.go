package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/usecase"
)

const maxDisplayNameLength = 80

// Input is a partial profile update; nil fields are left untouched and an empty string
// clears the field.
type Input struct {
	DisplayName *string
	AvatarURL   *string
}

type UseCase struct {
	deps usecase.Deps
}

func New(deps usecase.Deps) *UseCase {
	return &UseCase{deps: deps.Normalize()}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.deps.Store.Users.GetByID(ctx, userID)
}

// Ensure returns the user, creating an active one when it does not exist yet.
func (uc *UseCase) Ensure(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.deps.Store.Users.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	user = &domain.User{ID: userID, Role: "user", Status: "active"}
	if err := uc.deps.Store.Users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	uc.deps.Logger.Info("user created", zap.String("user_id", userID))
	return user, nil
}

func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, in Input) (*domain.User, error) {
	user, err := uc.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if len(name) > maxDisplayNameLength {
			return nil, domain.Invalid("display_name must be at most %d characters", maxDisplayNameLength)
		}
		user.DisplayName = nilIfEmpty(name)
	}
	if in.AvatarURL != nil {
		user.AvatarURL = nilIfEmpty(strings.TrimSpace(*in.AvatarURL))
	}

	if err := uc.deps.Store.Users.Upsert(ctx, user); err != nil {
		buffered := uc.deps.Buffered(err, "profile", usecase.OperationUpdate, func(b usecase.OperationBuffer) error {
			return b.BufferProfile(ctx, usecase.OperationUpdate, user)
		})
		if !buffered {
			return nil, err
		}
	}
	return user, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
