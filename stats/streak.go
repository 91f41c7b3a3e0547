package stats

import (
	"slices"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
)

// MaxStreakWalk bounds how many days the current-streak walk looks back. A streak older than
// this is reported as MaxStreakWalk; the longest streak is not bounded.
const MaxStreakWalk = 365

// StreakStats describes consecutive days with at least one completion or finished work session.
type StreakStats struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	TodayActive   bool `json:"today_active"`
}

// ActiveDays returns the set of calendar days, in loc, that contain a completed deadline or
// the start of a completed work session.
func ActiveDays(deadlines []domain.Deadline, sessions []domain.FocusSession, loc *time.Location) map[calendar.Day]struct{} {
	days := make(map[calendar.Day]struct{})
	for i := range deadlines {
		if c := deadlines[i].CompletedAt; c != nil {
			days[calendar.DayIn(*c, loc)] = struct{}{}
		}
	}
	for i := range sessions {
		if sessions[i].IsCompletedWork() {
			days[calendar.DayIn(sessions[i].StartedAt, loc)] = struct{}{}
		}
	}
	return days
}

// ComputeStreak derives the current and longest activity streaks as of now.
func ComputeStreak(deadlines []domain.Deadline, sessions []domain.FocusSession, now time.Time) StreakStats {
	days := ActiveDays(deadlines, sessions, now.Location())
	if len(days) == 0 {
		return StreakStats{}
	}

	today := calendar.DayOf(now)
	yesterday := today.AddDays(-1)

	_, todayActive := days[today]
	_, yesterdayActive := days[yesterday]

	current := 0
	if todayActive || yesterdayActive {
		cursor := today
		if !todayActive {
			cursor = yesterday
		}
		for i := 0; i < MaxStreakWalk; i++ {
			if _, ok := days[cursor]; !ok {
				break
			}
			current++
			cursor = cursor.AddDays(-1)
		}
	}

	return StreakStats{
		CurrentStreak: current,
		LongestStreak: longestRun(days),
		TodayActive:   todayActive,
	}
}

func longestRun(days map[calendar.Day]struct{}) int {
	sorted := make([]calendar.Day, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	slices.SortFunc(sorted, calendar.Day.Compare)

	longest, run := 0, 0
	for i, d := range sorted {
		if i > 0 && d.Sub(sorted[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
