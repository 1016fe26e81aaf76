package usecase

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// Operation names shared with the buffer layer.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay
// storage-agnostic. Reminder writes never go through here; a failed
// sweep is logged and dropped, not replayed.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferNotification(ctx context.Context, n *domain.Notification) error
}
