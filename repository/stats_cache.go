package repository

import "context"

// StatsCache stores computed statistics per user. Get reports false on a miss.
type StatsCache interface {
	Get(ctx context.Context, userID, key string, dest any) (bool, error)
	Set(ctx context.Context, userID, key string, value any) error
	Invalidate(ctx context.Context, userID string) error
}
