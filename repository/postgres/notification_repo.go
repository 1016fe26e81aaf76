package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

const insertNotification = `
	INSERT INTO notifications (id, type, reminder_kind, message, task_id, user_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n == nil {
		return domain.ErrInvalidPayload
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx, insertNotification,
		n.ID,
		n.Type,
		emptyToNil(n.ReminderKind),
		n.Message,
		n.TaskID,
		n.UserID,
	).Scan(&n.CreatedAt)
}

func (r *notificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range ns {
		n := &ns[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if err := tx.QueryRow(ctx, insertNotification,
			n.ID,
			n.Type,
			emptyToNil(n.ReminderKind),
			n.Message,
			n.TaskID,
			n.UserID,
		).Scan(&n.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	const query = `
	SELECT id, type, COALESCE(reminder_kind, ''), message, task_id, user_id, read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.Type, &n.ReminderKind, &n.Message,
			&n.TaskID, &n.UserID, &n.Read, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`,
		userID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`,
		userID,
	)
	return err
}

func (r *notificationRepository) HasRecentReminder(ctx context.Context, taskID, userID, kind string, since time.Time) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM notifications
		WHERE type = 'reminder'
		  AND reminder_kind = $3
		  AND task_id = $1
		  AND user_id = $2
		  AND created_at >= $4
	)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, taskID, userID, kind, since).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func emptyToNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
