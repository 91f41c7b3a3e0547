package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/usecase"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	clock    usecase.Clock
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, clock usecase.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

// CreateSession issues a session for an existing, active user.
func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	session := domain.NewSession(uuid.NewString(), userID, uc.clock(), ttl)
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	uc.logger.Info("session issued", zap.String("user_id", userID))
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(uc.clock()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	if err := uc.sessions.Extend(ctx, sessionID, ttl); err != nil {
		return nil, err
	}
	session.Refresh(now, ttl)
	return session, nil
}

// RevokeSession deletes a session owned by userID. Sessions of other users read as missing.
func (uc *UseCase) RevokeSession(ctx context.Context, userID, sessionID string) error {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrSessionNotFound
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.logger.Info("session revoked", zap.String("user_id", userID))
	return nil
}
