package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const minPasswordLen = 6

// Result is what every successful auth operation hands back: the user,
// a signed access token and the refresh session id backing it.
type Result struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	SessionID string       `json:"sessionId"`
}

type UseCase struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	logger     *zap.Logger
	secret     []byte
	issuer     string
	tokenTTL   time.Duration
	sessionTTL time.Duration
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	logger *zap.Logger,
	secret, issuer string,
	tokenTTL, sessionTTL time.Duration,
) *UseCase {
	return &UseCase{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		secret:     []byte(secret),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
		sessionTTL: sessionTTL,
	}
}

func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*Result, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid email address")
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", created.ID))
	return uc.issue(ctx, created)
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return uc.issue(ctx, user)
}

// Refresh trades a live session for a fresh token and extends the
// session. Expired sessions are removed eagerly.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string) (*Result, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(uc.sessionTTL)
	if err := uc.sessions.Save(ctx, session); err != nil {
		uc.logger.Warn("failed to extend session", zap.Error(err))
	}

	token, err := uc.signToken(user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Token: token, SessionID: sessionID}, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) issue(ctx context.Context, user *domain.User) (*Result, error) {
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Token: token, SessionID: session.ID}, nil
}

func (uc *UseCase) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"iss":     uc.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(uc.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, nil
}
