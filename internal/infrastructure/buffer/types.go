package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Buffered entity kinds.
const (
	EntityProfile      = "profile"
	EntityDeadline     = "deadline"
	EntitySubtask      = "subtask"
	EntityFocusSession = "focus_session"
)

// Replay priorities; lower drains first so parents land before the records that point at them.
const (
	PriorityProfile      = 1
	PriorityDeadline     = 2
	PrioritySubtask      = 3
	PriorityFocusSession = 3
	defaultPriority      = 3
	maxPriority          = 5
)

// Item is one write that failed against primary storage and waits for replay.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

// PriorityFor returns the replay priority of an entity kind.
func PriorityFor(entity string) int {
	switch entity {
	case EntityProfile:
		return PriorityProfile
	case EntityDeadline:
		return PriorityDeadline
	case EntitySubtask:
		return PrioritySubtask
	case EntityFocusSession:
		return PriorityFocusSession
	}
	return defaultPriority
}

func (i *Item) normalize(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > maxPriority {
		i.Priority = PriorityFor(i.Entity)
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = now
	}
}
