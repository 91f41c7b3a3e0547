package transport

import (
	"time"

	"github.com/fastygo/deadliner/domain"
)

type ProfileUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type DeadlineCreateRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	DeadlineAt  time.Time       `json:"deadline_at"`
	Priority    domain.Priority `json:"priority"`
	CategoryID  *string         `json:"category_id"`
	ParentID    *string         `json:"parent_id"`
}

// DeadlineUpdateRequest is partial: absent fields are kept, empty strings clear.
type DeadlineUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	DeadlineAt  *time.Time       `json:"deadline_at"`
	Priority    *domain.Priority `json:"priority"`
	CategoryID  *string          `json:"category_id"`
	ParentID    *string          `json:"parent_id"`
}

type SubtaskCreateRequest struct {
	Title      string     `json:"title"`
	DueAt      *time.Time `json:"due_at"`
	OrderIndex *int       `json:"order_index"`
}

type SubtaskUpdateRequest struct {
	Title     *string    `json:"title"`
	Completed *bool      `json:"completed"`
	DueAt     *time.Time `json:"due_at"`
}

type SubtaskOrderRequest struct {
	IDs []string `json:"ids"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type FocusStartRequest struct {
	DeadlineID      *string            `json:"deadline_id"`
	DurationMinutes int                `json:"duration_minutes"`
	SessionType     domain.SessionType `json:"session_type"`
}
