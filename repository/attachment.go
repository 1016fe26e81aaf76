package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type AttachmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Attachment, error)
	Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}
