package deadline

import (
	"time"

	"github.com/fastygo/deadliner/domain"
)

// Window selects deadlines by how soon they are due.
type Window string

const (
	WindowAll    Window = "all"
	WindowUrgent Window = "urgent"
	WindowWeek   Window = "week"
	WindowLater  Window = "later"
)

const (
	urgentWithin = 24 * time.Hour
	weekWithin   = 7 * 24 * time.Hour
)

// ParseWindow accepts an empty value as WindowAll.
func ParseWindow(value string) (Window, error) {
	switch w := Window(value); w {
	case "":
		return WindowAll, nil
	case WindowAll, WindowUrgent, WindowWeek, WindowLater:
		return w, nil
	}
	return "", domain.Invalid("unknown filter %q", value)
}

// Match reports whether d belongs to the window at now. Completed deadlines only show under
// WindowAll; overdue ones count as urgent.
func (w Window) Match(d *domain.Deadline, now time.Time) bool {
	if d.IsCompleted() {
		return w == WindowAll || w == ""
	}
	until := d.DeadlineAt.Sub(now)
	switch w {
	case WindowUrgent:
		return until < urgentWithin
	case WindowWeek:
		return until > urgentWithin && until <= weekWithin
	case WindowLater:
		return until > weekWithin
	default:
		return true
	}
}

// ListFilter narrows List. A zero Limit means no limit.
type ListFilter struct {
	Window     Window
	CategoryID string
	ParentID   string
	RootsOnly  bool
	Limit      int
	Offset     int
}
