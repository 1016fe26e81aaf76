package project

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase/authz"
)

const defaultProjectColor = "#6366f1"

type UseCase struct {
	projects repository.ProjectRepository
	policy   authz.Policy
}

func New(projects repository.ProjectRepository, policy authz.Policy) *UseCase {
	return &UseCase{projects: projects, policy: policy}
}

func (uc *UseCase) List(ctx context.Context, actor *domain.User) ([]domain.Project, error) {
	return uc.projects.List(ctx, uc.policy.ListScope(actor))
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.User, name, description, color string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if color == "" {
		color = defaultProjectColor
	}
	return uc.projects.Create(ctx, &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Color:       color,
		OwnerID:     actor.ID,
	})
}

// UpdateInput carries a partial project update; nil pointers leave the
// field untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Color       *string
}

func (uc *UseCase) Update(ctx context.Context, actor *domain.User, id string, input UpdateInput) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanModify(actor, project) {
		return nil, domain.ErrForbidden
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project; its tasks are detached, not deleted.
func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanModify(actor, project) {
		return domain.ErrForbidden
	}
	return uc.projects.Delete(ctx, id)
}
