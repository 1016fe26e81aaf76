package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed project repository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `
	p.id, p.name, p.description, p.color, p.owner_id, p.created_at,
	u.name, u.email,
	(SELECT count(*) FROM tasks t WHERE t.project_id = p.id)
`

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + `
	FROM projects p JOIN users u ON u.id = p.owner_id
	WHERE p.id = $1
	`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + `
	FROM projects p JOIN users u ON u.id = p.owner_id
	WHERE ($1 = '' OR p.owner_id = $1)
	ORDER BY p.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name, description, color, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Color,
		project.OwnerID,
	).Scan(&project.CreatedAt); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE projects
	SET name = $2, description = $3, color = $4
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, project.ID, project.Name, project.Description, project.Color)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete detaches the project's tasks first so they survive as
// project-less tasks.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE tasks SET project_id = NULL WHERE project_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return tx.Commit(ctx)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	var ownerName, ownerEmail string
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Color,
		&project.OwnerID,
		&project.CreatedAt,
		&ownerName,
		&ownerEmail,
		&project.TaskCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	project.Owner = &domain.UserRef{ID: project.OwnerID, Name: ownerName, Email: ownerEmail}
	return &project, nil
}
