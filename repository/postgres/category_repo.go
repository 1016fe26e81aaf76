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

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
	SELECT c.id, c.name, c.color, c.owner_id, c.created_at,
		(SELECT count(*) FROM tasks t WHERE t.category_id = c.id)
	FROM categories c
	WHERE c.id = $1
	`
	return scanCategory(r.pool.QueryRow(ctx, query, id))
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
	SELECT c.id, c.name, c.color, c.owner_id, c.created_at,
		(SELECT count(*) FROM tasks t WHERE t.category_id = c.id)
	FROM categories c
	WHERE c.id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCategories(rows)
}

func (r *categoryRepository) List(ctx context.Context, ownerID string) ([]domain.Category, error) {
	const query = `
	SELECT c.id, c.name, c.color, c.owner_id, c.created_at,
		(SELECT count(*) FROM tasks t WHERE t.category_id = c.id)
	FROM categories c
	WHERE ($1 = '' OR c.owner_id = $1)
	ORDER BY c.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCategories(rows)
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO categories (id, name, color, owner_id)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		category.ID,
		category.Name,
		category.Color,
		category.OwnerID,
	).Scan(&category.CreatedAt); err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.OwnerID,
		&category.CreatedAt,
		&category.TaskCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func collectCategories(rows pgx.Rows) ([]domain.Category, error) {
	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}
