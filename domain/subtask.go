package domain

import "time"

// Subtask is a checklist item that belongs to exactly one deadline.
type Subtask struct {
	ID         string     `json:"id"`
	DeadlineID string     `json:"deadline_id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Completed  bool       `json:"completed"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
