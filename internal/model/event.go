package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryResolver = "resolver"
	EventCategoryMenu     = "menu"
	EventCategoryPage     = "page"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
)

// Event represents an entry in the event log.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}
