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

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed comment repository.
func NewCommentRepository(pool *pgxpool.Pool) repository.CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
	SELECT c.id, c.content, c.task_id, c.author_id, c.created_at, u.name, u.email
	FROM comments c JOIN users u ON u.id = c.author_id
	WHERE c.id = $1
	`
	return scanComment(r.pool.QueryRow(ctx, query, id))
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	const query = `
	SELECT c.id, c.content, c.task_id, c.author_id, c.created_at, u.name, u.email
	FROM comments c JOIN users u ON u.id = c.author_id
	WHERE c.task_id = $1
	ORDER BY c.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if comment == nil {
		return nil, domain.ErrInvalidPayload
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO comments (id, content, task_id, author_id)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.Content,
		comment.TaskID,
		comment.AuthorID,
	).Scan(&comment.CreatedAt); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var comment domain.Comment
	var authorName, authorEmail string
	if err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&authorName,
		&authorEmail,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	comment.Author = &domain.UserRef{ID: comment.AuthorID, Name: authorName, Email: authorEmail}
	return &comment, nil
}
