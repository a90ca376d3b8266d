package models

import "time"

// ConnectionStatus represents the lifecycle state of a connection
// request. The only legal transitions are pending -> accepted and
// pending -> declined; both end states are terminal.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// IsTerminal reports whether no further transition is permitted.
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionAccepted || s == ConnectionDeclined
}

// ParseConnectionStatus converts a string to ConnectionStatus.
// Unknown values map to the empty status.
func ParseConnectionStatus(s string) ConnectionStatus {
	switch s {
	case "pending":
		return ConnectionPending
	case "accepted":
		return ConnectionAccepted
	case "declined":
		return ConnectionDeclined
	default:
		return ""
	}
}

// Connection is a directed collaboration request from a requester to
// a recipient, optionally scoped to an idea.
type Connection struct {
	ID              string           `json:"id"`
	RequesterID     string           `json:"requester_id"`
	RecipientID     string           `json:"recipient_id"`
	IdeaID          string           `json:"idea_id,omitempty"`
	Status          ConnectionStatus `json:"status"`
	Message         string           `json:"message"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// EnrichedConnection is a Connection decorated with requester and
// idea presentation fields for the received-requests view. The extra
// fields are read-side only and never persisted.
type EnrichedConnection struct {
	Connection
	RequesterName     string `json:"requester_name"`
	RequesterUsername string `json:"requester_username,omitempty"`
	IdeaTitle         string `json:"idea_title,omitempty"`
}
