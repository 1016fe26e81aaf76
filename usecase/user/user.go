package user

import (
	"context"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// UseCase serves the user directory used by tagging pickers. Full user
// records stay internal; only public refs leave this package.
type UseCase struct {
	users repository.UserRepository
}

func New(users repository.UserRepository) *UseCase {
	return &UseCase{users: users}
}

func (uc *UseCase) List(ctx context.Context) ([]domain.UserRef, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.UserRef, 0, len(users))
	for i := range users {
		refs = append(refs, *users[i].Ref())
	}
	return refs, nil
}
