package stats

import (
	"fmt"
	"time"

	"github.com/fastygo/deadliner/domain"
)

// Severity ranks an autopsy finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Finding is one observation about why a deadline was missed.
type Finding struct {
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Autopsy is the post-mortem of an overdue deadline.
type Autopsy struct {
	DeadlineID         string    `json:"deadline_id"`
	ExpiredAt          time.Time `json:"expired_at"`
	HoursOverdue       int       `json:"hours_overdue"`
	DaysOverdue        int       `json:"days_overdue"`
	DaysGiven          int       `json:"days_given"`
	SubtasksTotal      int       `json:"subtasks_total"`
	SubtasksCompleted  int       `json:"subtasks_completed"`
	ProgressPercentage int       `json:"progress_percentage"`
	Findings           []Finding `json:"findings"`
}

func fullDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

// ComputeAutopsy explains a missed deadline from its timing, subtask progress and priority.
func ComputeAutopsy(d domain.Deadline, subtasks []domain.Subtask, now time.Time) Autopsy {
	a := Autopsy{
		DeadlineID:   d.ID,
		ExpiredAt:    d.DeadlineAt.In(now.Location()),
		HoursOverdue: int(now.Sub(d.DeadlineAt) / time.Hour),
		DaysOverdue:  fullDays(now.Sub(d.DeadlineAt)),
		DaysGiven:    fullDays(d.DeadlineAt.Sub(d.CreatedAt)),
	}
	for i := range subtasks {
		a.SubtasksTotal++
		if subtasks[i].Completed {
			a.SubtasksCompleted++
		}
	}
	if a.SubtasksTotal > 0 {
		a.ProgressPercentage = (a.SubtasksCompleted*100 + a.SubtasksTotal/2) / a.SubtasksTotal
	}

	add := func(kind, title, desc string, sev Severity) {
		a.Findings = append(a.Findings, Finding{Kind: kind, Title: title, Description: desc, Severity: sev})
	}

	add("expired_at", "Time of expiry", a.ExpiredAt.Format("Monday, 2 January at 15:04"), SeverityInfo)

	if a.DaysOverdue > 0 {
		desc := fmt.Sprintf("%d days abandoned", a.DaysOverdue)
		if a.DaysOverdue == 1 {
			desc = fmt.Sprintf("%d hours without attention", a.HoursOverdue)
		}
		sev := SeverityWarning
		if a.DaysOverdue > 3 {
			sev = SeverityCritical
		}
		add("time_since_expiry", "Time since expiry", desc, sev)
	}

	switch {
	case a.SubtasksTotal == 0:
		add("no_plan", "No plan", "No subtasks were defined.", SeverityWarning)
	case a.SubtasksCompleted == 0:
		add("not_started", "Never started",
			fmt.Sprintf("%d subtasks left untouched.", a.SubtasksTotal), SeverityCritical)
	case a.ProgressPercentage < 50:
		add("incomplete", "Abandoned early",
			fmt.Sprintf("Only %d%% done (%d/%d).", a.ProgressPercentage, a.SubtasksCompleted, a.SubtasksTotal), SeverityCritical)
	default:
		add("almost", "Almost there",
			fmt.Sprintf("%d%% done (%d/%d).", a.ProgressPercentage, a.SubtasksCompleted, a.SubtasksTotal), SeverityWarning)
	}

	switch {
	case a.DaysGiven <= 1:
		add("short_window", "Not enough time",
			fmt.Sprintf("Only %d day(s) of margin.", max(a.DaysGiven, 0)), SeverityWarning)
	case a.DaysGiven > 7 && a.DaysOverdue > 0:
		add("procrastination", "Procrastination",
			fmt.Sprintf("There were %d days to finish it.", a.DaysGiven), SeverityCritical)
	}

	if d.Priority == domain.PriorityHigh {
		add("high_priority", "High priority ignored", "It was marked as high priority.", SeverityCritical)
	}

	return a
}
