package domain

import "time"

// Session is an issued API login, stored in Redis until it expires.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewSession starts a session for userID valid for ttl from now.
func NewSession(id, userID string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.After(reference)
}

// Refresh pushes the expiry to ttl after now.
func (s *Session) Refresh(now time.Time, ttl time.Duration) {
	s.ExpiresAt = now.Add(ttl)
}

// TTL is the remaining lifetime at now, never negative.
func (s *Session) TTL(now time.Time) time.Duration {
	return max(s.ExpiresAt.Sub(now), 0)
}
