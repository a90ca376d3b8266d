// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"time"

	"github.com/foundry-social/foundry/internal/models"
)

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error

	// Repository accessors
	Users() UserRepository
	Profiles() ProfileRepository
	Ideas() IdeaRepository
	Connections() ConnectionRepository
	Notifications() NotificationRepository
}

// UserRepository defines operations for account records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// ProfileRepository defines operations for co-founder profiles.
// Profiles are keyed by the owning user and written whole.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// IdeaRepository defines operations for posted ideas.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetByID(ctx context.Context, id string) (*models.Idea, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Idea, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Idea, error)
}

// ConnectionFilter narrows a connection listing.
type ConnectionFilter struct {
	// Role filters by the user's side of the connection:
	// "sent" (user is requester), "received" (user is recipient),
	// or empty for either side.
	Role string
	// IdeaID, when set, restricts results to one idea.
	IdeaID string
}

// Connection listing roles.
const (
	ConnectionsSent     = "sent"
	ConnectionsReceived = "received"
)

// ConnectionRepository defines operations for connection requests.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id string) (*models.Connection, error)
	// GetByPair returns the connection from requester to recipient
	// regardless of status, or nil when none exists. Uniqueness is
	// deliberately not scoped by idea.
	GetByPair(ctx context.Context, requesterID, recipientID string) (*models.Connection, error)
	ListForUser(ctx context.Context, userID string, filter ConnectionFilter) ([]*models.Connection, error)
	// ResolvePending flips a pending connection to a terminal status,
	// recording the rejection reason when non-empty. The update is
	// conditional on the row still being pending; it returns false
	// when another caller resolved the connection first.
	ResolvePending(ctx context.Context, id string, status models.ConnectionStatus, rejectionReason string, updatedAt time.Time) (bool, error)
}

// NotificationRepository defines operations for in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	ListUnreadIDs(ctx context.Context, userID string) ([]string, error)
	// MarkRead sets read and seen_at for the given ids, restricted to
	// rows owned by userID. Unknown or foreign ids are ignored.
	MarkRead(ctx context.Context, userID string, ids []string, seenAt time.Time) error
	// Delete removes one notification if owned by userID; deleting a
	// missing or foreign row is a no-op.
	Delete(ctx context.Context, userID, id string) error
	// PurgeSeenBefore deletes the user's notifications whose seen_at
	// is set and older than cutoff, returning the number removed.
	PurgeSeenBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error)
}
