package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// List scopes to one owner; an empty ownerID lists all projects.
	List(ctx context.Context, ownerID string) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// Delete detaches the project's tasks before removing the row.
	Delete(ctx context.Context, id string) error
}
