// Package monitor probes the storage dependencies of the active mode on a fixed interval.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/internal/infrastructure/buffer"
)

// Pinger is satisfied by the local bbolt store.
type Pinger interface {
	Ping() error
}

// ContextPinger is satisfied by *pgxpool.Pool.
type ContextPinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts go-redis, whose Ping returns a command.
type RedisPinger func(ctx context.Context) error

// Targets lists what to probe. Nil targets are skipped and do not affect IsOnline.
type Targets struct {
	Mode     string
	Postgres ContextPinger
	Redis    RedisPinger
	Local    Pinger
	Buffer   *buffer.Store
}

type Monitor struct {
	targets Targets

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(targets Targets, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		targets:  targets,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
		status:   Status{Mode: targets.Mode},
	}
}

// Start probes once synchronously, so IsOnline is meaningful right away, then keeps probing.
func (m *Monitor) Start() {
	m.Refresh(context.Background())
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every configured primary store answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe now.
func (m *Monitor) Refresh(ctx context.Context) {
	status := Status{Mode: m.targets.Mode, Online: true, LastCheck: time.Now()}

	if m.targets.Postgres != nil {
		status.PostgreSQL = probe(ctx, 3*time.Second, m.targets.Postgres.Ping)
		status.Online = status.Online && status.PostgreSQL
	}
	if m.targets.Redis != nil {
		status.Redis = probe(ctx, 2*time.Second, m.targets.Redis)
		status.Online = status.Online && status.Redis
	}
	if m.targets.Local != nil {
		status.LocalStore = m.targets.Local.Ping() == nil
		status.Online = status.Online && status.LocalStore
	}
	if m.targets.Buffer != nil {
		status.Buffer, status.BufferSize, status.Pending = m.checkBuffer()
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.Online != status.Online {
		m.logger.Warn("storage connectivity changed",
			zap.String("mode", status.Mode),
			zap.Bool("online", status.Online))
	}
}

func (m *Monitor) checkBuffer() (bool, int, map[string]int) {
	size, err := m.targets.Buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, 0, nil
	}
	pending, err := m.targets.Buffer.Pending()
	if err != nil {
		m.logger.Warn("buffer pending check failed", zap.Error(err))
	}
	return true, size, pending
}

func probe(ctx context.Context, timeout time.Duration, ping func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return ping(ctx) == nil
}
