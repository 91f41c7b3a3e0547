package repository

import (
	"context"
	"time"

	"github.com/fastygo/deadliner/domain"
)

// Store groups the repositories of one storage backend. Local and remote backends both
// provide a full Store so use cases never know which one is active.
type Store struct {
	Deadlines     DeadlineRepository
	Subtasks      SubtaskRepository
	FocusSessions FocusSessionRepository
	Categories    CategoryRepository
	Users         UserRepository
}

// LoadSnapshot reads every deadline and focus session of a user.
func LoadSnapshot(ctx context.Context, store Store, userID string, takenAt time.Time) (domain.Snapshot, error) {
	deadlines, err := store.Deadlines.List(ctx, DeadlineFilter{UserID: userID})
	if err != nil {
		return domain.Snapshot{}, err
	}
	sessions, err := store.FocusSessions.List(ctx, FocusSessionFilter{UserID: userID})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		UserID:        userID,
		Deadlines:     deadlines,
		FocusSessions: sessions,
		TakenAt:       takenAt,
	}, nil
}
