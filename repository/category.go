package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	// GetByIDs resolves only the referenced ids, for rollup enrichment.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error)
	// List scopes to one owner; an empty ownerID lists all categories.
	List(ctx context.Context, ownerID string) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
