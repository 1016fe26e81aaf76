package profile

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const minPasswordLen = 6

type UseCase struct {
	users repository.UserRepository
}

func New(users repository.UserRepository) *UseCase {
	return &UseCase{users: users}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Update changes name and avatar; email and role are immutable here.
func (uc *UseCase) Update(ctx context.Context, userID string, name, avatar *string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
		}
		user.Name = trimmed
	}
	if avatar != nil {
		user.Avatar = *avatar
	}
	if err := uc.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (uc *UseCase) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLen {
		return domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}
	return uc.users.UpdatePassword(ctx, userID, string(hash))
}
