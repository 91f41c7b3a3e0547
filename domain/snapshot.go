package domain

import "time"

// Snapshot is a read-only copy of one user's collections taken at a single instant.
type Snapshot struct {
	UserID        string         `json:"user_id"`
	Deadlines     []Deadline     `json:"deadlines"`
	Subtasks      []Subtask      `json:"subtasks,omitempty"`
	FocusSessions []FocusSession `json:"focus_sessions"`
	TakenAt       time.Time      `json:"taken_at"`
}

// Empty reports whether there is nothing in the snapshot.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Deadlines) == 0 && len(s.Subtasks) == 0 && len(s.FocusSessions) == 0)
}

// SubtasksByDeadline groups the snapshot's subtasks by owning deadline.
func (s *Snapshot) SubtasksByDeadline() map[string][]Subtask {
	out := make(map[string][]Subtask)
	if s == nil {
		return out
	}
	for _, st := range s.Subtasks {
		out[st.DeadlineID] = append(out[st.DeadlineID], st)
	}
	return out
}
