package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/foundry-social/foundry/internal/models"
)

type sqliteConnectionRepo struct {
	db *sql.DB
}

const connectionColumns = `id, requester_id, recipient_id, idea_id, status, message, rejection_reason, created_at, updated_at`

func (r *sqliteConnectionRepo) Create(ctx context.Context, conn *models.Connection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO connections (id, requester_id, recipient_id, idea_id, status, message, rejection_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conn.ID, conn.RequesterID, conn.RecipientID, nullString(conn.IdeaID),
		string(conn.Status), conn.Message, nullString(conn.RejectionReason),
		conn.CreatedAt, conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

func (r *sqliteConnectionRepo) GetByID(ctx context.Context, id string) (*models.Connection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id)
	return scanConnection(row)
}

func (r *sqliteConnectionRepo) GetByPair(ctx context.Context, requesterID, recipientID string) (*models.Connection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE requester_id = ? AND recipient_id = ?`,
		requesterID, recipientID)
	return scanConnection(row)
}

func (r *sqliteConnectionRepo) ListForUser(ctx context.Context, userID string, filter ConnectionFilter) ([]*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE `
	var args []any

	switch filter.Role {
	case ConnectionsSent:
		query += `requester_id = ?`
		args = append(args, userID)
	case ConnectionsReceived:
		query += `recipient_id = ?`
		args = append(args, userID)
	default:
		query += `(requester_id = ? OR recipient_id = ?)`
		args = append(args, userID, userID)
	}

	if filter.IdeaID != "" {
		query += ` AND idea_id = ?`
		args = append(args, filter.IdeaID)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var conns []*models.Connection
	for rows.Next() {
		conn, err := scanConnectionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan connection row: %w", err)
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func (r *sqliteConnectionRepo) ResolvePending(ctx context.Context, id string, status models.ConnectionStatus, rejectionReason string, updatedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE connections
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(status), nullString(rejectionReason), updatedAt,
		id, string(models.ConnectionPending),
	)
	if err != nil {
		return false, fmt.Errorf("resolve connection: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve connection rows affected: %w", err)
	}
	return rows > 0, nil
}

func scanConnection(row *sql.Row) (*models.Connection, error) {
	conn, err := scanConnectionRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan connection: %w", err)
	}
	return conn, nil
}

func scanConnectionRow(scan func(dest ...any) error) (*models.Connection, error) {
	var c models.Connection
	var status string
	var ideaID, rejectionReason sql.NullString

	err := scan(&c.ID, &c.RequesterID, &c.RecipientID, &ideaID, &status,
		&c.Message, &rejectionReason, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.IdeaID = ideaID.String
	c.Status = models.ConnectionStatus(status)
	c.RejectionReason = rejectionReason.String

	return &c, nil
}
