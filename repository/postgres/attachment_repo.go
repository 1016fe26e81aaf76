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

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository returns a Postgres-backed attachment repository.
func NewAttachmentRepository(pool *pgxpool.Pool) repository.AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	const query = `
	SELECT a.id, a.filename, a.path, a.mime_type, a.size, a.task_id, a.uploader_id, a.created_at, u.name
	FROM attachments a JOIN users u ON u.id = a.uploader_id
	WHERE a.id = $1
	`
	return scanAttachment(r.pool.QueryRow(ctx, query, id))
}

func (r *attachmentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Attachment, error) {
	const query = `
	SELECT a.id, a.filename, a.path, a.mime_type, a.size, a.task_id, a.uploader_id, a.created_at, u.name
	FROM attachments a JOIN users u ON u.id = a.uploader_id
	WHERE a.task_id = $1
	ORDER BY a.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *attachment)
	}
	return attachments, rows.Err()
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error) {
	if attachment == nil {
		return nil, domain.ErrInvalidPayload
	}
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO attachments (id, filename, path, mime_type, size, task_id, uploader_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		attachment.ID,
		attachment.Filename,
		attachment.Path,
		attachment.MimeType,
		attachment.Size,
		attachment.TaskID,
		attachment.UploaderID,
	).Scan(&attachment.CreatedAt); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

func scanAttachment(row rowScanner) (*domain.Attachment, error) {
	var attachment domain.Attachment
	var uploaderName string
	if err := row.Scan(
		&attachment.ID,
		&attachment.Filename,
		&attachment.Path,
		&attachment.MimeType,
		&attachment.Size,
		&attachment.TaskID,
		&attachment.UploaderID,
		&attachment.CreatedAt,
		&uploaderName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	attachment.Uploader = &domain.UserRef{ID: attachment.UploaderID, Name: uploaderName}
	return &attachment, nil
}
