package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
)

var _ notification.Repo = (*NotificationRepo)(nil)

// NotificationRepo owns the durable copy of every notification.
type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (id, owner_id, message, read)
VALUES ($1, $2, $3, FALSE)
RETURNING id, owner_id, message, read;`

	qNotifByOwner = `
SELECT id, owner_id, message, read
FROM notifications
WHERE owner_id = $1
ORDER BY created_at, id;`

	qNotifByID = `
SELECT id, owner_id, message, read
FROM notifications
WHERE id = $1;`

	qNotifMarkRead = `
UPDATE notifications
SET read = TRUE
WHERE id = $1
RETURNING id, owner_id, message, read;`
)

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, qNotifInsert, uuid.NewString(), n.OwnerID, n.Message)
	if err := scanNotification(row, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByOwner(ctx context.Context, ownerID string) ([]*notification.Notification, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotifByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n notification.Notification
	if err := scanNotification(r.db.Pool.QueryRow(ctx, qNotifByID, id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead flips read to true. The UPDATE is idempotent and the row lock
// serializes concurrent callers, so the flag never goes back to false.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) (*notification.Notification, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n notification.Notification
	if err := scanNotification(r.db.Pool.QueryRow(ctx, qNotifMarkRead, id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNotification(row pgx.Row, out *notification.Notification) error {
	if err := row.Scan(&out.ID, &out.OwnerID, &out.Message, &out.Read); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.ErrNotFound
		}
		return fmt.Errorf("scan notification: %w", err)
	}
	return nil
}
