package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// The outbox is append-only; only the read flag is ever updated.
// ══════════════════════════════════════════════════════════════════════════════

const notificationColumns = `id, recipient_id, type, title, message, read, created_at`

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new NotificationRepository bound to a
// pool or transaction.
func NewNotificationRepository(q Querier) *NotificationRepository {
	return &NotificationRepository{q: q}
}

// Create puts a notification into the outbox.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		n.ID, n.RecipientID, n.Type.String(), n.Title, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateBatch puts a batch of notifications into the outbox in one round
// trip (rule change broadcast).
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, n := range ns {
		batch.Queue(query, n.ID, n.RecipientID, n.Type.String(), n.Title, n.Message, n.Read, n.CreatedAt)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for range ns {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create notification batch: %w", err)
		}
	}

	return nil
}

// GetByID returns a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	return scanNotification(r.q.QueryRow(ctx, query, id))
}

// GetByRecipient returns a student's notifications, newest first.
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID string, opts notification.ListOptions) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if opts.UnreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var ns []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}

	return ns, rows.Err()
}

// CountUnread returns the number of unread notifications of a student.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks every notification of a student as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`,
		recipientID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n     notification.Notification
		ntype string
	)

	err := row.Scan(&n.ID, &n.RecipientID, &ntype, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.Type = notification.Type(ntype)
	return &n, nil
}
