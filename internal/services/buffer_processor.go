package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/internal/infrastructure/buffer"
	"github.com/fastygo/deadliner/repository"
	"github.com/fastygo/deadliner/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	// Retention drops items older than this on the hourly cleanup. Zero keeps them.
	Retention time.Duration
}

// BufferProcessor replays buffered writes into the primary store.
type BufferProcessor struct {
	queue   *buffer.Store
	monitor ConnectionHealth
	store   repository.Store
	cache   repository.StatsCache
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

// NewBufferProcessor schedules draining every cfg.Interval. cache may be nil; when set, the
// stats of every replayed user are invalidated.
func NewBufferProcessor(
	queue *buffer.Store,
	monitor ConnectionHealth,
	store repository.Store,
	cache repository.StatsCache,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		queue:   queue,
		monitor: monitor,
		store:   store,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(int(cfg.Interval.Seconds()), 1))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})
	if cfg.Retention > 0 {
		_, _ = bp.cron.AddFunc("@hourly", bp.cleanup)
	}

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain or for ctx, whichever ends first.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch. Failed items are requeued until MaxRetries, then dropped.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.queue == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.queue.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	touched := make(map[string]struct{})
	for _, item := range items {
		if err := bp.replay(ctx, item); err != nil {
			bp.logger.Error("failed to replay buffered write",
				zap.String("item_id", item.ID),
				zap.String("entity", item.Entity),
				zap.String("operation", item.Operation),
				zap.Error(err))

			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries || !usecase.Bufferable(err) {
				bp.logger.Warn("dropping buffered write", zap.String("item_id", item.ID), zap.Int("retries", item.Retries))
				_ = bp.queue.Remove(item)
				continue
			}
			if err := bp.queue.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffered write", zap.Error(err))
			}
			continue
		}

		touched[item.UserID] = struct{}{}
		if err := bp.queue.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed write", zap.Error(err))
		}
	}

	bp.invalidate(ctx, touched)
	return nil
}

// BufferOperation retries the write once when the monitor says online, then persists it.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.queue == nil {
		return errors.New("buffer processor not configured")
	}

	if bp.monitor != nil && bp.monitor.IsOnline() {
		err := bp.replay(ctx, item)
		if err == nil {
			bp.invalidate(ctx, map[string]struct{}{item.UserID: {}})
			return nil
		}
		bp.logger.Warn("immediate replay failed, buffering", zap.String("entity", item.Entity), zap.Error(err))
	}
	return bp.queue.Enqueue(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.queue == nil {
		return 0
	}
	size, err := bp.queue.Size()
	if err != nil {
		return 0
	}
	return size
}

// replay writes create and update as upserts so a partially applied write can be repeated.
func (bp *BufferProcessor) replay(ctx context.Context, item buffer.Item) error {
	switch item.Entity {
	case buffer.EntityProfile:
		var user domain.User
		if err := json.Unmarshal(item.Data, &user); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "decode buffered profile", err)
		}
		return bp.store.Users.Upsert(ctx, &user)

	case buffer.EntityDeadline:
		var d domain.Deadline
		if err := json.Unmarshal(item.Data, &d); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "decode buffered deadline", err)
		}
		if item.Operation == usecase.OperationDelete {
			if err := bp.store.Subtasks.DeleteByDeadline(ctx, d.ID); err != nil {
				return err
			}
			return ignoreNotFound(bp.store.Deadlines.Delete(ctx, d.ID))
		}
		return bp.store.Deadlines.Upsert(ctx, &d)

	case buffer.EntitySubtask:
		var s domain.Subtask
		if err := json.Unmarshal(item.Data, &s); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "decode buffered subtask", err)
		}
		if item.Operation == usecase.OperationDelete {
			return ignoreNotFound(bp.store.Subtasks.Delete(ctx, s.ID))
		}
		return bp.store.Subtasks.Upsert(ctx, &s)

	case buffer.EntityFocusSession:
		var s domain.FocusSession
		if err := json.Unmarshal(item.Data, &s); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "decode buffered focus session", err)
		}
		if item.Operation == usecase.OperationDelete {
			return domain.Invalid("focus sessions are never deleted")
		}
		return bp.store.FocusSessions.Upsert(ctx, &s)
	}
	return domain.Invalid("unsupported buffered entity %q", item.Entity)
}

func (bp *BufferProcessor) invalidate(ctx context.Context, users map[string]struct{}) {
	if bp.cache == nil {
		return
	}
	for userID := range users {
		if userID == "" {
			continue
		}
		if err := bp.cache.Invalidate(ctx, userID); err != nil {
			bp.logger.Warn("failed to invalidate stats cache", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

func (bp *BufferProcessor) cleanup() {
	removed, err := bp.queue.Cleanup(time.Now().Add(-bp.cfg.Retention))
	if err != nil {
		bp.logger.Error("buffer cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		bp.logger.Warn("expired buffered writes dropped", zap.Int("count", removed))
	}
}

func ignoreNotFound(err error) error {
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil
	}
	return err
}
