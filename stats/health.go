package stats

import (
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
)

// HealthStatus classifies a single calendar day.
type HealthStatus string

const (
	HealthVital    HealthStatus = "vital"
	HealthStable   HealthStatus = "stable"
	HealthWeak     HealthStatus = "weak"
	HealthCritical HealthStatus = "critical"
	HealthFlatline HealthStatus = "flatline"
	HealthNone     HealthStatus = "none"
)

var healthLabels = map[HealthStatus]string{
	HealthVital:    "Optimal vital signs",
	HealthStable:   "Stable",
	HealthWeak:     "Weak signs",
	HealthCritical: "Critical",
	HealthFlatline: "No vital signs",
	HealthNone:     "No recorded activity",
}

// Label is the human readable caption of the status.
func (s HealthStatus) Label() string {
	return healthLabels[s]
}

const (
	dayCompletionPoints = 15
	dayCompletionCap    = 50
	dayFocusCap         = 30
	dayOverduePenalty   = 25
)

// DayHealth scores one calendar day.
type DayHealth struct {
	Date           string       `json:"date"`
	Status         HealthStatus `json:"status"`
	Score          int          `json:"score"`
	CompletedCount int          `json:"completed_count"`
	OverdueCount   int          `json:"overdue_count"`
	FocusMinutes   int          `json:"focus_minutes"`
}

type dayTally struct {
	completed    int
	overdue      int
	focusMinutes int
	hadDue       bool
}

// HealthIndex holds per-day tallies built in a single pass, so a month of days can be
// scored without rescanning the collections.
type HealthIndex struct {
	loc   *time.Location
	today calendar.Day
	days  map[calendar.Day]*dayTally
}

// NewHealthIndex indexes the collections by calendar day in the location of today.
//
// A deadline counts as overdue on its due day when it was completed after the due instant, or
// when it is still open and the due day is already in the past.
func NewHealthIndex(deadlines []domain.Deadline, sessions []domain.FocusSession, today time.Time) *HealthIndex {
	idx := &HealthIndex{
		loc:   today.Location(),
		today: calendar.DayOf(today),
		days:  make(map[calendar.Day]*dayTally),
	}

	for i := range deadlines {
		d := &deadlines[i]
		due := idx.tally(calendar.DayIn(d.DeadlineAt, idx.loc))
		due.hadDue = true
		if d.CompletedAt != nil {
			idx.tally(calendar.DayIn(*d.CompletedAt, idx.loc)).completed++
			if d.CompletedAt.After(d.DeadlineAt) {
				due.overdue++
			}
			continue
		}
		if calendar.DayIn(d.DeadlineAt, idx.loc).Before(idx.today) {
			due.overdue++
		}
	}

	for i := range sessions {
		s := &sessions[i]
		if !s.IsCompletedWork() {
			continue
		}
		idx.tally(calendar.DayIn(*s.CompletedAt, idx.loc)).focusMinutes += s.DurationMinutes
	}

	return idx
}

func (idx *HealthIndex) tally(day calendar.Day) *dayTally {
	t, ok := idx.days[day]
	if !ok {
		t = &dayTally{}
		idx.days[day] = t
	}
	return t
}

// Day scores a calendar day.
func (idx *HealthIndex) Day(day calendar.Day) DayHealth {
	out := DayHealth{Date: day.String(), Status: HealthNone}
	t, ok := idx.days[day]
	if !ok {
		return out
	}
	if t.completed == 0 && t.focusMinutes == 0 && t.overdue == 0 && !t.hadDue {
		return out
	}

	out.CompletedCount = t.completed
	out.OverdueCount = t.overdue
	out.FocusMinutes = t.focusMinutes

	score := min(t.completed*dayCompletionPoints, dayCompletionCap) +
		min(t.focusMinutes/2, dayFocusCap) -
		t.overdue*dayOverduePenalty
	out.Score = min(max(score, 0), 100)
	out.Status = classifyDay(out.Score, t.overdue)
	return out
}

// Month scores every day of the month containing month.
func (idx *HealthIndex) Month(month time.Time) []DayHealth {
	first := calendar.DayOf(calendar.StartOfMonth(month.In(idx.loc)))
	out := make([]DayHealth, 0, 31)
	for d := first; d.Month == first.Month; d = d.AddDays(1) {
		out = append(out, idx.Day(d))
	}
	return out
}

func classifyDay(score, overdue int) HealthStatus {
	switch {
	case score >= 75:
		return HealthVital
	case score >= 50:
		return HealthStable
	case score >= 25:
		return HealthWeak
	case score > 0:
		return HealthCritical
	case overdue > 0:
		return HealthFlatline
	default:
		return HealthNone
	}
}

// ComputeDayHealth scores the calendar day containing date, as seen from today.
func ComputeDayHealth(deadlines []domain.Deadline, sessions []domain.FocusSession, date, today time.Time) DayHealth {
	idx := NewHealthIndex(deadlines, sessions, today)
	return idx.Day(calendar.DayIn(date, idx.loc))
}

// ComputeMonthHealth scores every day of the month containing month, as seen from today.
func ComputeMonthHealth(deadlines []domain.Deadline, sessions []domain.FocusSession, month, today time.Time) []DayHealth {
	return NewHealthIndex(deadlines, sessions, today).Month(month)
}
