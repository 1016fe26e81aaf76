package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

// CategoryTally is a raw per-category count before category names and
// colors are resolved. A nil CategoryID is the uncategorized group.
type CategoryTally struct {
	CategoryID *string
	Count      int
}

// DashboardRepository serves the aggregation endpoint. All three
// methods scope to tasks the viewer owns or is tagged on; bucket counts
// are computed in one query so they share a single now snapshot.
type DashboardRepository interface {
	CountBuckets(ctx context.Context, viewerID string, now time.Time) (domain.DashboardCounts, error)
	CountByCategory(ctx context.Context, viewerID string) ([]CategoryTally, error)
	ListUpcoming(ctx context.Context, viewerID string, from, to time.Time, limit int) ([]domain.Task, error)
}
