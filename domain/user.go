package domain

import "time"

// User represents an authenticated identity and its public profile.
type User struct {
	ID          string            `json:"id"`
	Email       string            `json:"email,omitempty"`
	DisplayName *string           `json:"display_name"`
	AvatarURL   *string           `json:"avatar_url"`
	Role        string            `json:"role"`
	Status      string            `json:"status"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}
