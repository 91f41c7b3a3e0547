package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/repository"
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

// Deps carries what every write-side use case needs. Buffer and Cache are optional.
type Deps struct {
	Store  repository.Store
	Buffer OperationBuffer
	Cache  repository.StatsCache
	Clock  Clock
	Logger *zap.Logger
}

// Normalize fills the optional collaborators with working defaults.
func (d Deps) Normalize() Deps {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// Now reads the clock in UTC so stored instants do not carry a local zone.
func (d Deps) Now() time.Time {
	return d.Clock().UTC()
}

// InvalidateStats drops cached statistics after a write. Cache failures are logged only.
func (d Deps) InvalidateStats(ctx context.Context, userID string) {
	if d.Cache == nil || userID == "" {
		return
	}
	if err := d.Cache.Invalidate(ctx, userID); err != nil {
		d.Logger.Warn("failed to invalidate stats cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// Buffered hands a failed write to the buffer. It reports true when the write was
// accepted for later replay.
func (d Deps) Buffered(err error, entity, operation string, enqueue func(OperationBuffer) error) bool {
	if d.Buffer == nil || !Bufferable(err) {
		return false
	}
	if bufErr := enqueue(d.Buffer); bufErr != nil {
		d.Logger.Error("failed to buffer operation",
			zap.String("entity", entity),
			zap.String("operation", operation),
			zap.Error(bufErr))
		return false
	}
	d.Logger.Warn("operation buffered",
		zap.String("entity", entity),
		zap.String("operation", operation),
		zap.Error(err))
	return true
}
