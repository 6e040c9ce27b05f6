package workflow

import "context"

// Level grades a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a human-readable outcome of a workflow action
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives workflow outcomes
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
