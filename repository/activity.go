package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// ActivityRepository is an append-only trail; entries are never updated
// or deleted by application logic.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error)
}
