package domain

import "time"

// Priority ranks how important a deadline is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DeadlineStatus is the urgency bucket derived from the remaining time.
type DeadlineStatus string

const (
	StatusImmediate DeadlineStatus = "immediate"
	StatusWarning   DeadlineStatus = "warning"
	StatusOnTrack   DeadlineStatus = "on_track"
	StatusCompleted DeadlineStatus = "completed"
	StatusOverdue   DeadlineStatus = "overdue"
)

// Deadline is a user goal with a due instant, optionally nested under a parent deadline.
type Deadline struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DeadlineAt  time.Time  `json:"deadline_at"`
	Priority    Priority   `json:"priority"`
	CategoryID  *string    `json:"category_id"`
	ParentID    *string    `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (d *Deadline) IsCompleted() bool {
	return d != nil && d.CompletedAt != nil
}

// IsOverdue reports whether the deadline is still open past its due instant.
func (d *Deadline) IsOverdue(now time.Time) bool {
	return d != nil && d.CompletedAt == nil && d.DeadlineAt.Before(now)
}

func (d *Deadline) Touch(now time.Time) {
	if d == nil {
		return
	}
	d.UpdatedAt = now
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
}

// Countdown is the time left until a deadline plus how much of its window has elapsed.
type Countdown struct {
	Days       int     `json:"days"`
	Hours      int     `json:"hours"`
	Minutes    int     `json:"minutes"`
	Seconds    int     `json:"seconds"`
	Total      int64   `json:"total_ms"`
	Percentage float64 `json:"percentage"`
}

// Countdown computes the remaining time at now. An expired deadline reports zero with 100%.
func (d *Deadline) Countdown(now time.Time) Countdown {
	remaining := d.DeadlineAt.Sub(now)
	if remaining <= 0 {
		return Countdown{Percentage: 100}
	}

	start := d.CreatedAt
	if start.IsZero() {
		start = now
	}
	var percentage float64
	if window := d.DeadlineAt.Sub(start); window > 0 {
		percentage = float64(now.Sub(start)) / float64(window) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	return Countdown{
		Days:       int(remaining / (24 * time.Hour)),
		Hours:      int(remaining % (24 * time.Hour) / time.Hour),
		Minutes:    int(remaining % time.Hour / time.Minute),
		Seconds:    int(remaining % time.Minute / time.Second),
		Total:      remaining.Milliseconds(),
		Percentage: percentage,
	}
}

// Status buckets the deadline by urgency at now.
func (d *Deadline) Status(now time.Time) DeadlineStatus {
	if d.IsCompleted() {
		return StatusCompleted
	}
	c := d.Countdown(now)
	switch {
	case c.Total <= 0:
		return StatusOverdue
	case c.Days == 0 && c.Hours < 6:
		return StatusImmediate
	case c.Days < 2:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}
