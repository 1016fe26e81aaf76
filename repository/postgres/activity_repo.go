package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed activity repository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activities (id, action, details, task_id, actor_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	var details interface{}
	if len(activity.Details) > 0 {
		details = []byte(activity.Details)
	}
	return r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Action,
		details,
		activity.TaskID,
		activity.ActorID,
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	const query = `
	SELECT a.id, a.action, a.details, a.task_id, a.actor_id, a.created_at, u.name
	FROM activities a JOIN users u ON u.id = a.actor_id
	WHERE a.task_id = $1
	ORDER BY a.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var (
			activity  domain.Activity
			details   []byte
			actorName string
		)
		if err := rows.Scan(
			&activity.ID,
			&activity.Action,
			&details,
			&activity.TaskID,
			&activity.ActorID,
			&activity.CreatedAt,
			&actorName,
		); err != nil {
			return nil, err
		}
		activity.Details = details
		activity.Actor = &domain.UserRef{ID: activity.ActorID, Name: actorName}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
