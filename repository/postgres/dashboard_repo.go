package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository returns the aggregation queries behind the
// dashboard endpoint.
func NewDashboardRepository(pool *pgxpool.Pool) repository.DashboardRepository {
	return &dashboardRepository{pool: pool}
}

// visibleTasks scopes every dashboard query to tasks the viewer owns or
// is tagged on. All roles use the same rule here.
const visibleTasks = `
	(t.owner_id = $1 OR EXISTS (
		SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.user_id = $1
	))
`

// CountBuckets computes all four mutually exclusive buckets in a single
// query so they share one now snapshot and cannot double-count.
func (r *dashboardRepository) CountBuckets(ctx context.Context, viewerID string, now time.Time) (domain.DashboardCounts, error) {
	query := `
	SELECT
		count(*) FILTER (WHERE t.status = 'COMPLETED'),
		count(*) FILTER (WHERE t.status <> 'COMPLETED' AND t.due_date < $2),
		count(*) FILTER (WHERE t.status = 'IN_PROGRESS'
			AND (t.due_date IS NULL OR t.due_date >= $2)),
		count(*) FILTER (WHERE t.status NOT IN ('COMPLETED', 'IN_PROGRESS')
			AND (t.due_date IS NULL OR t.due_date >= $2))
	FROM tasks t
	WHERE ` + visibleTasks

	var counts domain.DashboardCounts
	err := r.pool.QueryRow(ctx, query, viewerID, now).Scan(
		&counts.Completed,
		&counts.Overdue,
		&counts.InProgress,
		&counts.Pending,
	)
	return counts, err
}

func (r *dashboardRepository) CountByCategory(ctx context.Context, viewerID string) ([]repository.CategoryTally, error) {
	query := `
	SELECT t.category_id, count(*)
	FROM tasks t
	WHERE ` + visibleTasks + `
	GROUP BY t.category_id
	`
	rows, err := r.pool.Query(ctx, query, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []repository.CategoryTally
	for rows.Next() {
		var tally repository.CategoryTally
		if err := rows.Scan(&tally.CategoryID, &tally.Count); err != nil {
			return nil, err
		}
		tallies = append(tallies, tally)
	}
	return tallies, rows.Err()
}

func (r *dashboardRepository) ListUpcoming(ctx context.Context, viewerID string, from, to time.Time, limit int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE ` + visibleTasks + `
	  AND t.status <> 'COMPLETED'
	  AND t.due_date >= $2
	  AND t.due_date <= $3
	` + taskGroupBy + `
	ORDER BY t.due_date ASC
	LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, viewerID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}
