// Package stats serves productivity statistics for a user. It loads a snapshot from the
// active store, reads the clock once per request and hands both to the pure core.
package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
	"github.com/fastygo/deadliner/repository"
	core "github.com/fastygo/deadliner/stats"
	"github.com/fastygo/deadliner/usecase"
)

// Overview bundles every statistic for the current instant.
type Overview struct {
	Weekly      core.WeeklyStats `json:"weekly"`
	Streak      core.StreakStats `json:"streak"`
	Chart       []core.ChartDay  `json:"chart"`
	Vitality    core.Vitality    `json:"vitality"`
	Today       core.DayHealth   `json:"today"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type UseCase struct {
	deps usecase.Deps
	loc  *time.Location
}

// New interprets every instant in loc; nil means UTC.
func New(deps usecase.Deps, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{deps: deps.Normalize(), loc: loc}
}

// Location is the zone used for calendar days.
func (uc *UseCase) Location() *time.Location {
	return uc.loc
}

// Today is the current calendar day in the stats zone.
func (uc *UseCase) Today() calendar.Day {
	return calendar.DayOf(uc.now())
}

func (uc *UseCase) now() time.Time {
	return uc.deps.Clock().In(uc.loc)
}

func (uc *UseCase) Weekly(ctx context.Context, userID string) (core.WeeklyStats, error) {
	now := uc.now()
	return cached(ctx, uc, userID, "weekly:"+calendar.DayOf(now).String(), now, func(s domain.Snapshot) core.WeeklyStats {
		return core.ComputeWeekly(s.Deadlines, s.FocusSessions, now)
	})
}

func (uc *UseCase) Streak(ctx context.Context, userID string) (core.StreakStats, error) {
	now := uc.now()
	return cached(ctx, uc, userID, "streak:"+calendar.DayOf(now).String(), now, func(s domain.Snapshot) core.StreakStats {
		return core.ComputeStreak(s.Deadlines, s.FocusSessions, now)
	})
}

// Chart buckets the week starting at weekStart, or the current week when nil.
func (uc *UseCase) Chart(ctx context.Context, userID string, weekStart *calendar.Day) ([]core.ChartDay, error) {
	now := uc.now()
	start := calendar.StartOfWeek(now, core.WeekStartsOn)
	if weekStart != nil {
		start = weekStart.Time(uc.loc)
	}
	key := "chart:" + calendar.DayOf(start).String() + ":" + calendar.DayOf(now).String()
	return cached(ctx, uc, userID, key, now, func(s domain.Snapshot) []core.ChartDay {
		return core.ComputeDailyChart(s.Deadlines, s.FocusSessions, start, now)
	})
}

// Vitality is not cached: overdue counts move with the clock.
func (uc *UseCase) Vitality(ctx context.Context, userID string) (core.Vitality, error) {
	now := uc.now()
	snap, err := uc.snapshot(ctx, userID, now)
	if err != nil {
		return core.Vitality{}, err
	}
	return vitality(snap, now), nil
}

func (uc *UseCase) DayHealth(ctx context.Context, userID string, day calendar.Day) (core.DayHealth, error) {
	now := uc.now()
	key := "health:" + day.String() + ":" + calendar.DayOf(now).String()
	return cached(ctx, uc, userID, key, now, func(s domain.Snapshot) core.DayHealth {
		return core.ComputeDayHealth(s.Deadlines, s.FocusSessions, day.Time(uc.loc), now)
	})
}

// MonthHealth scores every day of the month containing month.
func (uc *UseCase) MonthHealth(ctx context.Context, userID string, month calendar.Day) ([]core.DayHealth, error) {
	now := uc.now()
	first := calendar.Day{Year: month.Year, Month: month.Month, Day: 1}
	key := "month:" + first.String() + ":" + calendar.DayOf(now).String()
	return cached(ctx, uc, userID, key, now, func(s domain.Snapshot) []core.DayHealth {
		return core.ComputeMonthHealth(s.Deadlines, s.FocusSessions, first.Time(uc.loc), now)
	})
}

// Overview computes everything from one snapshot and one clock reading.
func (uc *UseCase) Overview(ctx context.Context, userID string) (Overview, error) {
	now := uc.now()
	snap, err := uc.snapshot(ctx, userID, now)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Weekly:      core.ComputeWeekly(snap.Deadlines, snap.FocusSessions, now),
		Streak:      core.ComputeStreak(snap.Deadlines, snap.FocusSessions, now),
		Chart:       core.ComputeDailyChart(snap.Deadlines, snap.FocusSessions, calendar.StartOfWeek(now, core.WeekStartsOn), now),
		Vitality:    vitality(snap, now),
		Today:       core.ComputeDayHealth(snap.Deadlines, snap.FocusSessions, now, now),
		GeneratedAt: now,
	}, nil
}

func vitality(s domain.Snapshot, now time.Time) core.Vitality {
	streak := core.ComputeStreak(s.Deadlines, s.FocusSessions, now)
	return core.ComputeVitality(s.Deadlines, s.FocusSessions, streak.CurrentStreak, now)
}

func (uc *UseCase) snapshot(ctx context.Context, userID string, now time.Time) (domain.Snapshot, error) {
	return repository.LoadSnapshot(ctx, uc.deps.Store, userID, now)
}

// cached serves key from the stats cache, computing and storing it on a miss. Cache errors
// degrade to a direct computation.
func cached[T any](ctx context.Context, uc *UseCase, userID, key string, now time.Time, compute func(domain.Snapshot) T) (T, error) {
	var out T
	if uc.deps.Cache != nil {
		hit, err := uc.deps.Cache.Get(ctx, userID, key, &out)
		if err != nil {
			uc.deps.Logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return out, nil
		}
	}

	snap, err := uc.snapshot(ctx, userID, now)
	if err != nil {
		return out, err
	}
	out = compute(snap)

	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.Set(ctx, userID, key, out); err != nil {
			uc.deps.Logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}
