package models

import "time"

// NotificationType identifies which connection transition produced a
// notification.
type NotificationType string

const (
	NotificationConnectionRequest  NotificationType = "connection_request"
	NotificationConnectionAccepted NotificationType = "connection_accepted"
	NotificationConnectionDeclined NotificationType = "connection_declined"
)

// Notification is an in-app notification record owned by UserID.
// Records are created as a side-effect of connection transitions and
// purged once seen for more than the retention window.
type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         NotificationType `json:"type"`
	ConnectionID string           `json:"connection_id"`
	IdeaID       string           `json:"idea_id,omitempty"`
	ActorName    string           `json:"actor_name"`
	IdeaTitle    string           `json:"idea_title,omitempty"`
	Message      string           `json:"message,omitempty"`
	Read         bool             `json:"read"`
	SeenAt       *time.Time       `json:"seen_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
