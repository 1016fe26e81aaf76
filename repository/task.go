package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

// TaskFilter narrows List. An empty ViewerID means no visibility
// restriction (admin listing); otherwise only tasks the viewer owns or
// is tagged on are returned.
type TaskFilter struct {
	ViewerID   string
	Search     string
	Status     string
	CategoryID string
	DueFrom    *time.Time
	DueTo      *time.Time
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	ReplaceTags(ctx context.Context, taskID string, userIDs []string) error
	Delete(ctx context.Context, id string) error

	// Reminder sweep queries. Both return only non-completed tasks and
	// populate TaggedUserIDs so callers can fan out to the visible set.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
}
