package model

import "time"

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a transient message for the front-end toast surface.
type Notification struct {
	Level      NotificationLevel `json:"level"`
	Message    string            `json:"message"`
	EntityType EntityType        `json:"entity_type,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
