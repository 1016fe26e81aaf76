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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

// taskColumns is the shared projection: task row, aggregated tag ids,
// owner reference and category, all in one round trip.
const taskColumns = `
	t.id, t.owner_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.category_id, t.project_id, t.created_at, t.updated_at,
	COALESCE(array_agg(tt.user_id) FILTER (WHERE tt.user_id IS NOT NULL), '{}'),
	u.name, u.email,
	c.name, c.color, c.created_at
`

const taskJoins = `
	FROM tasks t
	LEFT JOIN task_tags tt ON tt.task_id = t.id
	JOIN users u ON u.id = t.owner_id
	LEFT JOIN categories c ON c.id = t.category_id
`

const taskGroupBy = ` GROUP BY t.id, u.id, c.id `

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.id = $1 ` + taskGroupBy
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE ($1 = '' OR t.owner_id = $1
		OR EXISTS (SELECT 1 FROM task_tags v WHERE v.task_id = t.id AND v.user_id = $1))
	  AND ($2 = '' OR t.status = $2)
	  AND ($3 = '' OR t.category_id = $3)
	  AND ($4 = '' OR t.title ILIKE '%' || $4 || '%' OR t.description ILIKE '%' || $4 || '%')
	  AND ($5::timestamptz IS NULL OR t.due_date >= $5)
	  AND ($6::timestamptz IS NULL OR t.due_date <= $6)
	` + taskGroupBy + `
	ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query,
		filter.ViewerID,
		filter.Status,
		filter.CategoryID,
		filter.Search,
		timeOrNil(filter.DueFrom),
		timeOrNil(filter.DueTo),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO tasks (id, owner_id, title, description, status, priority, due_date, category_id, project_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		timeOrNil(task.DueDate),
		derefOrNil(task.CategoryID),
		derefOrNil(task.ProjectID),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	if err := insertTags(ctx, tx, task.ID, task.TaggedUserIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		category_id = $7,
		project_id = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		timeOrNil(task.DueDate),
		derefOrNil(task.CategoryID),
		derefOrNil(task.ProjectID),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) ReplaceTags(ctx context.Context, taskID string, userIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, taskID, userIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.status <> 'COMPLETED'
	  AND t.due_date >= $1
	  AND t.due_date <= $2
	` + taskGroupBy
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.status <> 'COMPLETED'
	  AND t.due_date < $1
	` + taskGroupBy
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func insertTags(ctx context.Context, tx pgx.Tx, taskID string, userIDs []string) error {
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_tags (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, userID,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task       domain.Task
		ownerName  string
		ownerEmail string
		catName    *string
		catColor   *string
		catCreated *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CategoryID,
		&task.ProjectID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.TaggedUserIDs,
		&ownerName,
		&ownerEmail,
		&catName,
		&catColor,
		&catCreated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Owner = &domain.UserRef{ID: task.OwnerID, Name: ownerName, Email: ownerEmail}
	if task.CategoryID != nil && catName != nil {
		task.Category = &domain.Category{
			ID:    *task.CategoryID,
			Name:  *catName,
			Color: *catColor,
		}
		if catCreated != nil {
			task.Category.CreatedAt = *catCreated
		}
	}
	return &task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
