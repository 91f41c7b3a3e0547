// Package cloudsync pushes the local store into the remote one for an authenticated user.
package cloudsync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/usecase"
)

const (
	lastSyncKey  = "last_sync"
	syncOwnerKey = "sync_owner"
)

// Report counts what one push uploaded.
type Report struct {
	Deadlines     int       `json:"deadlines"`
	Subtasks      int       `json:"subtasks"`
	FocusSessions int       `json:"focus_sessions"`
	At            time.Time `json:"at"`
}

// Empty reports whether nothing was uploaded.
func (r Report) Empty() bool {
	return r.Deadlines == 0 && r.Subtasks == 0 && r.FocusSessions == 0
}

type UseCase struct {
	local       repository.Store
	remote      repository.Store
	localUserID string
	deps        usecase.Deps
}

// New pushes from local to remote. deps.Cache is the remote stats cache.
func New(local, remote repository.Store, localUserID string, deps usecase.Deps) *UseCase {
	return &UseCase{
		local:       local,
		remote:      remote,
		localUserID: localUserID,
		deps:        deps.Normalize(),
	}
}

// Push upserts every local deadline, subtask and focus session into the remote store under
// userID. Records are matched by id, so pushing twice is harmless. An empty local store is
// not an error. The first account that pushes records owns the local store; pushes from any
// other account fail with domain.ErrForbidden.
func (uc *UseCase) Push(ctx context.Context, userID string) (Report, error) {
	if uc.local.Deadlines == nil || uc.remote.Deadlines == nil {
		return Report{}, domain.ErrRemoteUnavailable
	}
	if userID == "" {
		return Report{}, domain.ErrUnauthorized
	}

	owner, err := uc.syncOwner(ctx)
	if err != nil {
		return Report{}, err
	}
	if owner != "" && owner != userID {
		uc.deps.Logger.Warn("sync refused for foreign account",
			zap.String("user_id", userID),
			zap.String("owner_id", owner))
		return Report{}, domain.ErrForbidden
	}

	report := Report{At: uc.deps.Now()}

	deadlines, err := uc.local.Deadlines.List(ctx, repository.DeadlineFilter{})
	if err != nil {
		return report, err
	}
	subtasks, err := uc.local.Subtasks.List(ctx, repository.SubtaskFilter{})
	if err != nil {
		return report, err
	}
	sessions, err := uc.local.FocusSessions.List(ctx, repository.FocusSessionFilter{})
	if err != nil {
		return report, err
	}

	for i := range deadlines {
		d := &deadlines[i]
		d.UserID = userID
		if err := uc.remote.Deadlines.Upsert(ctx, d); err != nil {
			return report, err
		}
		report.Deadlines++
	}
	for i := range subtasks {
		s := &subtasks[i]
		s.UserID = userID
		if err := uc.remote.Subtasks.Upsert(ctx, s); err != nil {
			return report, err
		}
		report.Subtasks++
	}
	for i := range sessions {
		s := &sessions[i]
		s.UserID = userID
		if err := uc.remote.FocusSessions.Upsert(ctx, s); err != nil {
			return report, err
		}
		report.FocusSessions++
	}

	if report.Empty() {
		uc.deps.Logger.Info("nothing to sync", zap.String("user_id", userID))
		return report, nil
	}

	uc.deps.InvalidateStats(ctx, userID)
	uc.markSynced(ctx, userID, report.At)
	uc.deps.Logger.Info("local data pushed",
		zap.String("user_id", userID),
		zap.Int("deadlines", report.Deadlines),
		zap.Int("subtasks", report.Subtasks),
		zap.Int("focus_sessions", report.FocusSessions))
	return report, nil
}

// LastSync returns when the local store was last pushed, or zero if never.
func (uc *UseCase) LastSync(ctx context.Context) (time.Time, error) {
	raw, err := uc.metadata(ctx, lastSyncKey)
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

func (uc *UseCase) syncOwner(ctx context.Context) (string, error) {
	return uc.metadata(ctx, syncOwnerKey)
}

// metadata reads one key from the local user, returning "" when the user or key is missing.
func (uc *UseCase) metadata(ctx context.Context, key string) (string, error) {
	if uc.local.Users == nil {
		return "", nil
	}
	u, err := uc.local.Users.GetByID(ctx, uc.localUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return u.Metadata[key], nil
}

func (uc *UseCase) markSynced(ctx context.Context, userID string, at time.Time) {
	if uc.local.Users == nil {
		return
	}
	u, err := uc.local.Users.GetByID(ctx, uc.localUserID)
	if err != nil {
		u = &domain.User{ID: uc.localUserID, Role: "user", Status: "active"}
	}
	if u.Metadata == nil {
		u.Metadata = map[string]string{}
	}
	u.Metadata[lastSyncKey] = at.Format(time.RFC3339)
	u.Metadata[syncOwnerKey] = userID
	if err := uc.local.Users.Upsert(ctx, u); err != nil {
		uc.deps.Logger.Warn("failed to record sync time", zap.Error(err))
	}
}
