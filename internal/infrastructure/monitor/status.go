package monitor

import "time"

// Status is the last probe result. Fields of dependencies the active mode does not use stay
// false and are omitted from JSON.
type Status struct {
	Mode       string         `json:"mode"`
	Online     bool           `json:"online"`
	PostgreSQL bool           `json:"postgresql,omitempty"`
	Redis      bool           `json:"redis,omitempty"`
	LocalStore bool           `json:"local_store,omitempty"`
	Buffer     bool           `json:"buffer,omitempty"`
	BufferSize int            `json:"buffer_size,omitempty"`
	Pending    map[string]int `json:"pending,omitempty"`
	LastCheck  time.Time      `json:"last_check"`
}
