package domain

import "time"

// SessionType distinguishes pomodoro work intervals from breaks.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

// DefaultMinutes is the classic pomodoro length of each interval type.
func (t SessionType) DefaultMinutes() int {
	switch t {
	case SessionShortBreak:
		return 5
	case SessionLongBreak:
		return 15
	default:
		return 25
	}
}

// FocusSession is a timed work or break interval, optionally tied to a deadline.
type FocusSession struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	DeadlineID      *string     `json:"deadline_id"`
	DurationMinutes int         `json:"duration_minutes"`
	StartedAt       time.Time   `json:"started_at"`
	CompletedAt     *time.Time  `json:"completed_at"`
	SessionType     SessionType `json:"session_type"`
}

// IsCompletedWork reports whether the session is a finished work interval, the only kind
// that counts toward focus statistics.
func (s *FocusSession) IsCompletedWork() bool {
	return s != nil && s.CompletedAt != nil && s.SessionType == SessionWork
}
