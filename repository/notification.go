package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	CreateBatch(ctx context.Context, ns []domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// HasRecentReminder reports whether a reminder of the given kind was
	// already created for (task, user) at or after since. This is the
	// sweep's deduplication key; kinds are independent of each other.
	HasRecentReminder(ctx context.Context, taskID, userID, kind string, since time.Time) (bool, error)
}
