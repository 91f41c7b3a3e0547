package stats

import (
	"fmt"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
)

// VitalityState classifies a vitality score.
type VitalityState string

const (
	StateVital    VitalityState = "vital"
	StateWeak     VitalityState = "weak"
	StateCritical VitalityState = "critical"
	StateFlatline VitalityState = "flatline"
)

// NoActivityDays is reported as DaysSinceActivity when nothing was ever completed.
const NoActivityDays = 999

// Scoring weights. These are product-tuned and must not drift.
const (
	vitalityBase = 40

	recencyToday     = 35
	recencyYesterday = 20
	recencyTwoDays   = 5
	recencyIdleGrace = -5
	recencyIdle      = -25
	recencyGoneGrace = -15
	recencyGone      = -40

	streakWeekBonus  = 25
	streakThreeBonus = 15
	streakAnyBonus   = 8

	ratioExcellent = 20
	ratioGood      = 12
	ratioFair      = 5
	ratioPoor      = -10

	focusLongBonus   = 15
	focusMediumBonus = 10
	focusShortBonus  = 5

	momentumUp     = 10
	momentumSteady = 3

	overduePerItem = 8
	overdueCap     = 25

	completedTodayPerItem = 3
	completedTodayCap     = 10

	overworkThreshold = 110

	recentWindowDays = 7
)

// VitalityFactors are the derived inputs of the score. ScoreVitality depends on nothing else.
type VitalityFactors struct {
	DaysSinceActivity      int  `json:"days_since_activity"`
	OverdueCount           int  `json:"overdue_count"`
	CompletedToday         int  `json:"completed_today"`
	CompletedYesterday     int  `json:"completed_yesterday"`
	CompletedRecently      int  `json:"completed_recently"`
	RelevantThisWeek       int  `json:"relevant_this_week"`
	StreakDays             int  `json:"streak_days"`
	FocusMinutesToday      int  `json:"focus_minutes_today"`
	FocusedYesterday       bool `json:"focused_yesterday"`
	HasScheduledTasksToday bool `json:"has_scheduled_tasks_today"`
}

// VitalityTerms is the per-term contribution to the raw score.
type VitalityTerms struct {
	Base           int `json:"base"`
	Recency        int `json:"recency"`
	Streak         int `json:"streak"`
	Completion     int `json:"completion"`
	Focus          int `json:"focus"`
	Momentum       int `json:"momentum"`
	Overdue        int `json:"overdue"`
	CompletedToday int `json:"completed_today"`
}

func (t VitalityTerms) Sum() int {
	return t.Base + t.Recency + t.Streak + t.Completion + t.Focus + t.Momentum + t.Overdue + t.CompletedToday
}

// Vitality is the heuristic 0-100 productivity health of a user.
type Vitality struct {
	Score                  int           `json:"score"`
	RawScore               int           `json:"raw_score"`
	State                  VitalityState `json:"state"`
	DaysSinceActivity      int           `json:"days_since_activity"`
	OverdueCount           int           `json:"overdue_count"`
	CompletedToday         int           `json:"completed_today"`
	CompletedRecently      int           `json:"completed_recently"`
	StreakDays             int           `json:"streak_days"`
	FocusMinutesToday      int           `json:"focus_minutes_today"`
	CompletionRatio        float64       `json:"completion_ratio"`
	IsOverworking          bool          `json:"is_overworking"`
	HasScheduledTasksToday bool          `json:"has_scheduled_tasks_today"`
	Message                string        `json:"message"`
	Terms                  VitalityTerms `json:"terms"`
}

// ComputeVitality scores the collections as of now, given the current streak.
func ComputeVitality(deadlines []domain.Deadline, sessions []domain.FocusSession, currentStreak int, now time.Time) Vitality {
	return ScoreVitality(CollectVitalityFactors(deadlines, sessions, currentStreak, now))
}

// CollectVitalityFactors reduces the collections to the score inputs in one pass each.
func CollectVitalityFactors(deadlines []domain.Deadline, sessions []domain.FocusSession, currentStreak int, now time.Time) VitalityFactors {
	loc := now.Location()
	today := calendar.DayOf(now)
	f := VitalityFactors{StreakDays: currentStreak}

	var last *time.Time
	seen := func(t *time.Time) {
		if last == nil || t.After(*last) {
			last = t
		}
	}

	relevantOpen := 0
	for i := range deadlines {
		d := &deadlines[i]
		if d.CompletedAt != nil {
			seen(d.CompletedAt)
			ago := today.Sub(calendar.DayIn(*d.CompletedAt, loc))
			switch ago {
			case 0:
				f.CompletedToday++
			case 1:
				f.CompletedYesterday++
			}
			if ago <= recentWindowDays {
				f.CompletedRecently++
			}
			continue
		}
		if d.DeadlineAt.Before(now) {
			f.OverdueCount++
		}
		due := calendar.DayIn(d.DeadlineAt, loc)
		if due == today {
			f.HasScheduledTasksToday = true
		}
		if due.Sub(today) <= recentWindowDays {
			relevantOpen++
		}
	}
	f.RelevantThisWeek = f.CompletedRecently + relevantOpen

	for i := range sessions {
		s := &sessions[i]
		if s.CompletedAt == nil {
			continue
		}
		seen(s.CompletedAt)
		if s.SessionType != domain.SessionWork {
			continue
		}
		switch today.Sub(calendar.DayIn(s.StartedAt, loc)) {
		case 0:
			f.FocusMinutesToday += s.DurationMinutes
		case 1:
			f.FocusedYesterday = true
		}
	}

	f.DaysSinceActivity = NoActivityDays
	if last != nil {
		f.DaysSinceActivity = max(0, today.Sub(calendar.DayIn(*last, loc)))
	}
	return f
}

// ScoreVitality turns the factors into a clamped score, a state and a message.
func ScoreVitality(f VitalityFactors) Vitality {
	var ratio float64
	if f.RelevantThisWeek > 0 {
		ratio = float64(f.CompletedRecently) / float64(f.RelevantThisWeek)
	}

	terms := VitalityTerms{
		Base:           vitalityBase,
		Recency:        recencyTerm(f),
		Streak:         streakTerm(f.StreakDays),
		Completion:     completionTerm(ratio, f.RelevantThisWeek),
		Focus:          focusTerm(f.FocusMinutesToday),
		Momentum:       momentumTerm(f),
		Overdue:        -min(f.OverdueCount*overduePerItem, overdueCap),
		CompletedToday: min(f.CompletedToday*completedTodayPerItem, completedTodayCap),
	}

	raw := terms.Sum()
	score := min(max(raw, 0), 100)
	overworking := raw > overworkThreshold
	state := classifyVitality(score, overworking, f.OverdueCount)

	return Vitality{
		Score:                  score,
		RawScore:               raw,
		State:                  state,
		DaysSinceActivity:      f.DaysSinceActivity,
		OverdueCount:           f.OverdueCount,
		CompletedToday:         f.CompletedToday,
		CompletedRecently:      f.CompletedRecently,
		StreakDays:             f.StreakDays,
		FocusMinutesToday:      f.FocusMinutesToday,
		CompletionRatio:        ratio,
		IsOverworking:          overworking,
		HasScheduledTasksToday: f.HasScheduledTasksToday,
		Message:                vitalityMessage(state, score, overworking, f),
		Terms:                  terms,
	}
}

func recencyTerm(f VitalityFactors) int {
	grace := !f.HasScheduledTasksToday && f.OverdueCount == 0
	switch d := f.DaysSinceActivity; {
	case d <= 0:
		return recencyToday
	case d == 1:
		return recencyYesterday
	case d == 2:
		return recencyTwoDays
	case d < 5:
		if grace {
			return recencyIdleGrace
		}
		return recencyIdle
	default:
		if grace {
			return recencyGoneGrace
		}
		return recencyGone
	}
}

func streakTerm(days int) int {
	switch {
	case days >= 7:
		return streakWeekBonus
	case days >= 3:
		return streakThreeBonus
	case days >= 1:
		return streakAnyBonus
	}
	return 0
}

func completionTerm(ratio float64, relevant int) int {
	if relevant == 0 {
		return 0
	}
	switch {
	case ratio >= 0.9:
		return ratioExcellent
	case ratio >= 0.7:
		return ratioGood
	case ratio >= 0.5:
		return ratioFair
	case ratio < 0.3:
		return ratioPoor
	}
	return 0
}

func focusTerm(minutes int) int {
	switch {
	case minutes >= 90:
		return focusLongBonus
	case minutes >= 45:
		return focusMediumBonus
	case minutes >= 25:
		return focusShortBonus
	}
	return 0
}

func momentumTerm(f VitalityFactors) int {
	todayActivity := f.CompletedToday
	if f.FocusMinutesToday > 0 {
		todayActivity++
	}
	yesterdayActivity := f.CompletedYesterday
	if f.FocusedYesterday {
		yesterdayActivity++
	}
	switch {
	case todayActivity == 0:
		return 0
	case todayActivity > yesterdayActivity:
		return momentumUp
	case todayActivity == yesterdayActivity:
		return momentumSteady
	}
	return 0
}

// classifyVitality maps a clamped score to a state. Overwork always reads as vital. Below 25
// the state is flatline only at zero or with overdue items, otherwise critical.
func classifyVitality(score int, overworking bool, overdue int) VitalityState {
	switch {
	case overworking:
		return StateVital
	case score >= 65:
		return StateVital
	case score >= 45:
		return StateWeak
	case score >= 25:
		return StateCritical
	case score == 0 || overdue > 0:
		return StateFlatline
	default:
		return StateCritical
	}
}

var (
	overworkMessages = []string{
		"You're on fire. Remember to take a break.",
		"Impressive pace. Rest is part of the plan too.",
	}
	thrivingMessages = []string{
		"Your productivity is in great shape!",
		"Strong pulse. Keep it up!",
	}
	steadyMessages = []string{
		"Steady rhythm. Keep going.",
		"Healthy pulse today.",
	}
	slowingMessages = []string{
		"Your pace is slowing down...",
		"A small win today would help.",
	}
	criticalMessages = []string{
		"Critical vital signs!",
		"Time to get back on track.",
	}
	resuscitateMessages = []string{
		"You need resuscitation!",
		"Complete one thing to restart the heart.",
	}
)

// vitalityMessage picks a message from the category selected by state and the dominant
// factor. The variant index is derived from the inputs so the result stays deterministic.
func vitalityMessage(state VitalityState, score int, overworking bool, f VitalityFactors) string {
	seed := score + f.StreakDays + f.OverdueCount
	switch state {
	case StateVital:
		switch {
		case overworking:
			return pick(overworkMessages, seed)
		case score >= 85 && f.StreakDays > 0:
			return fmt.Sprintf("%d-day streak. Keep it up!", f.StreakDays)
		case score >= 85:
			return pick(thrivingMessages, seed)
		default:
			return pick(steadyMessages, seed)
		}
	case StateWeak:
		if f.OverdueCount > 0 {
			return fmt.Sprintf("%d overdue %s", f.OverdueCount, plural(f.OverdueCount, "task", "tasks"))
		}
		return pick(slowingMessages, seed)
	case StateCritical:
		if f.DaysSinceActivity >= 3 && f.DaysSinceActivity != NoActivityDays {
			return fmt.Sprintf("%d days without activity", f.DaysSinceActivity)
		}
		return pick(criticalMessages, seed)
	default:
		if f.DaysSinceActivity >= 5 {
			return "No signs of life..."
		}
		return pick(resuscitateMessages, seed)
	}
}

func pick(options []string, seed int) string {
	if seed < 0 {
		seed = -seed
	}
	return options[seed%len(options)]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
