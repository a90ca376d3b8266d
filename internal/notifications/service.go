// Package notifications implements the notification inbox: listing
// with retention, read state, and deletion. All operations are scoped
// to the owning user; acting on another user's notification is a
// silent no-op rather than an error.
package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/foundry-social/foundry/internal/metrics"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/storage"
)

// RetentionWindow is how long a seen notification survives before it
// is purged on the next listing.
const RetentionWindow = 7 * 24 * time.Hour

// Service implements notification inbox operations.
type Service struct {
	repo storage.NotificationRepository
	now  func() time.Time
}

// NewService creates a notification service.
func NewService(repo storage.NotificationRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the user's notifications, newest first. Listing first
// purges notifications seen longer ago than the retention window, so
// the inbox cleans itself up as a side effect of being read.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	cutoff := s.now().Add(-RetentionWindow)
	purged, err := s.repo.PurgeSeenBefore(ctx, userID, cutoff)
	if err != nil {
		// Listing still works when the purge fails.
		log.Printf("notifications: purge for user %s failed: %v", userID, err)
	} else if purged > 0 {
		metrics.NotifyPurgedTotal.Add(float64(purged))
	}

	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if list == nil {
		list = []*models.Notification{}
	}
	return list, nil
}

// MarkRead marks the given notifications as read. Ids that do not
// exist or belong to someone else are ignored; repeating the call
// changes nothing.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.MarkRead(ctx, userID, ids, s.now()); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	ids, err := s.repo.ListUnreadIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("list unread notifications: %w", err)
	}
	return s.MarkRead(ctx, userID, ids)
}

// Delete removes one notification. Deleting a missing or foreign
// notification is a no-op.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
