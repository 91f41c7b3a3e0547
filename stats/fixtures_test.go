package stats

import (
	"time"

	"github.com/fastygo/deadliner/domain"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func doneDeadline(id string, due, done time.Time, category string) domain.Deadline {
	d := domain.Deadline{
		ID:          id,
		Title:       id,
		DeadlineAt:  due,
		Priority:    domain.PriorityMedium,
		CreatedAt:   due.Add(-72 * time.Hour),
		CompletedAt: ptr(done),
	}
	if category != "" {
		d.CategoryID = ptr(category)
	}
	return d
}

func openDeadline(id string, due time.Time) domain.Deadline {
	return domain.Deadline{
		ID:         id,
		Title:      id,
		DeadlineAt: due,
		Priority:   domain.PriorityMedium,
		CreatedAt:  due.Add(-72 * time.Hour),
	}
}

func session(kind domain.SessionType, started time.Time, minutes int, finished bool) domain.FocusSession {
	s := domain.FocusSession{
		ID:              started.Format(time.RFC3339) + string(kind),
		DurationMinutes: minutes,
		StartedAt:       started,
		SessionType:     kind,
	}
	if finished {
		s.CompletedAt = ptr(started.Add(time.Duration(minutes) * time.Minute))
	}
	return s
}

func workSession(started time.Time, minutes int) domain.FocusSession {
	return session(domain.SessionWork, started, minutes, true)
}
