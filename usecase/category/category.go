package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase/authz"
)

type UseCase struct {
	categories repository.CategoryRepository
	policy     authz.Policy
}

func New(categories repository.CategoryRepository, policy authz.Policy) *UseCase {
	return &UseCase{categories: categories, policy: policy}
}

func (uc *UseCase) List(ctx context.Context, actor *domain.User) ([]domain.Category, error) {
	return uc.categories.List(ctx, uc.policy.ListScope(actor))
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.User, name, color string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if color == "" {
		color = domain.DefaultCategoryColor
	}
	return uc.categories.Create(ctx, &domain.Category{
		ID:      uuid.New().String(),
		Name:    name,
		Color:   color,
		OwnerID: actor.ID,
	})
}

// Delete removes a category; its tasks keep existing and fall back to
// the uncategorized rollup group.
func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanModify(actor, category) {
		return domain.ErrForbidden
	}
	return uc.categories.Delete(ctx, id)
}
