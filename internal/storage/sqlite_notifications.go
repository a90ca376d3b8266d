package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/foundry-social/foundry/internal/models"
)

type sqliteNotificationRepo struct {
	db *sql.DB
}

const notificationColumns = `id, user_id, type, connection_id, idea_id, actor_name, idea_title, message, read, seen_at, created_at`

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, connection_id, idea_id, actor_name, idea_title, message, read, seen_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), nullString(n.ConnectionID), nullString(n.IdeaID),
		n.ActorName, nullString(n.IdeaTitle), nullString(n.Message),
		boolToInt(n.Read), n.SeenAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		var connectionID, ideaID, ideaTitle, message sql.NullString
		var read int
		var seenAt sql.NullTime

		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &connectionID, &ideaID,
			&n.ActorName, &ideaTitle, &message, &read, &seenAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}

		n.ConnectionID = connectionID.String
		n.IdeaID = ideaID.String
		n.IdeaTitle = ideaTitle.String
		n.Message = message.String
		n.Read = read != 0
		if seenAt.Valid {
			t := seenAt.Time
			n.SeenAt = &t
		}

		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *sqliteNotificationRepo) ListUnreadIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM notifications WHERE user_id = ? AND read = 0`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan notification id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sqliteNotificationRepo) MarkRead(ctx context.Context, userID string, ids []string, seenAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, 0, len(ids)+2)
	args = append(args, seenAt, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	// seen_at is set once; re-reading a read notification keeps the
	// original timestamp so the retention clock does not reset.
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications
		SET read = 1, seen_at = COALESCE(seen_at, ?)
		WHERE user_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) PurgeSeenBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = ? AND seen_at IS NOT NULL AND seen_at < ?`,
		userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge notifications rows affected: %w", err)
	}
	return rows, nil
}
