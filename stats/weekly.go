// Package stats derives productivity statistics from deadline and focus-session snapshots.
//
// Every function is pure: it reads the collections it is given plus an explicit reference
// instant and returns a fresh value. All instants are interpreted in the location of the
// reference instant.
package stats

import (
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
)

// WeekStartsOn anchors every weekly bucket.
const WeekStartsOn = time.Monday

// Uncategorized keys completions whose deadline has no category.
const Uncategorized = "uncategorized"

// WeeklyStats summarises the calendar week containing the reference instant.
type WeeklyStats struct {
	CompletedTotal      int            `json:"completed_total"`
	CompletedByCategory map[string]int `json:"completed_by_category"`
	TotalFocusMinutes   int            `json:"total_focus_minutes"`
	FocusSessionsCount  int            `json:"focus_sessions_count"`
	TodaySessionsCount  int            `json:"today_sessions_count"`
}

// ComputeWeekly counts completions and completed work sessions in the Monday-Sunday week
// containing now, plus the work sessions started since midnight today.
func ComputeWeekly(deadlines []domain.Deadline, sessions []domain.FocusSession, now time.Time) WeeklyStats {
	loc := now.Location()
	weekStart := calendar.StartOfWeek(now, WeekStartsOn)
	weekEnd := calendar.EndOfWeek(now, WeekStartsOn)
	today := calendar.StartOfDay(now)

	out := WeeklyStats{CompletedByCategory: make(map[string]int)}

	for i := range deadlines {
		d := &deadlines[i]
		if d.CompletedAt == nil {
			continue
		}
		if !calendar.WithinInclusive(d.CompletedAt.In(loc), weekStart, weekEnd) {
			continue
		}
		out.CompletedTotal++
		key := Uncategorized
		if d.CategoryID != nil && *d.CategoryID != "" {
			key = *d.CategoryID
		}
		out.CompletedByCategory[key]++
	}

	for i := range sessions {
		s := &sessions[i]
		if !s.IsCompletedWork() {
			continue
		}
		started := s.StartedAt.In(loc)
		if calendar.WithinInclusive(started, weekStart, weekEnd) {
			out.TotalFocusMinutes += s.DurationMinutes
			out.FocusSessionsCount++
		}
		if !started.Before(today) {
			out.TodaySessionsCount++
		}
	}

	return out
}
