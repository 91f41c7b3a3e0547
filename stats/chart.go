package stats

import (
	"math"
	"time"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
)

// PomodoroMinutes converts focus minutes into pomodoro-equivalents for charts.
const PomodoroMinutes = 25

const chartDays = 7

// ChartDay is one weekday bar of the activity chart.
type ChartDay struct {
	Day       string `json:"day"`
	FullDay   string `json:"full_day"`
	Date      string `json:"date"`
	Deadlines int    `json:"deadlines"`
	Focus     int    `json:"focus"`
	IsToday   bool   `json:"is_today"`
}

// ComputeDailyChart buckets completions and focus time into the seven days starting at
// weekStart. Focus is reported as round(minutes / PomodoroMinutes).
func ComputeDailyChart(deadlines []domain.Deadline, sessions []domain.FocusSession, weekStart, today time.Time) []ChartDay {
	loc := weekStart.Location()
	first := calendar.DayOf(weekStart)
	todayDay := calendar.DayIn(today, loc)

	out := make([]ChartDay, chartDays)
	var minutes [chartDays]int
	for i := range out {
		d := first.AddDays(i)
		wd := d.Weekday().String()
		out[i] = ChartDay{
			Day:     wd[:3],
			FullDay: wd,
			Date:    d.String(),
			IsToday: d == todayDay,
		}
	}

	for i := range deadlines {
		c := deadlines[i].CompletedAt
		if c == nil {
			continue
		}
		if off := calendar.DayIn(*c, loc).Sub(first); off >= 0 && off < chartDays {
			out[off].Deadlines++
		}
	}

	for i := range sessions {
		s := &sessions[i]
		if !s.IsCompletedWork() {
			continue
		}
		if off := calendar.DayIn(s.StartedAt, loc).Sub(first); off >= 0 && off < chartDays {
			minutes[off] += s.DurationMinutes
		}
	}

	for i := range out {
		out[i].Focus = int(math.Round(float64(minutes[i]) / PomodoroMinutes))
	}
	return out
}
