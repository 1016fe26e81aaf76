package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}}
	for _, user := range users {
		repo.byEmail[user.Email] = user
		repo.byID[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	if session, ok := f.sessions[id]; ok {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func newTestUseCase(users *fakeUserRepo, sessions *fakeSessionRepo) *UseCase {
	return New(users, sessions, zap.NewNop(), "test-secret", "taskhive", time.Hour, 24*time.Hour)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestRegisterIssuesTokenWithIdentityClaims(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo(), newFakeSessionRepo())

	result, err := uc.Register(context.Background(), "Ada", "ADA@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", result.User.Email)
	}
	if result.User.Role != domain.RoleUser {
		t.Errorf("role = %q, want USER", result.User.Role)
	}
	if result.SessionID == "" {
		t.Error("no session issued")
	}

	token, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != result.User.ID || claims["name"] != "Ada" || claims["role"] != domain.RoleUser {
		t.Errorf("claims = %v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo(), newFakeSessionRepo())

	tests := []struct {
		name, userName, email, password string
	}{
		{"missing name", "", "a@b.com", "longenough"},
		{"missing email", "Ada", "", "longenough"},
		{"malformed email", "Ada", "not-an-email", "longenough"},
		{"short password", "Ada", "a@b.com", "tiny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Register(context.Background(), tt.userName, tt.email, tt.password); err == nil {
				t.Error("Register() accepted invalid input")
			}
		})
	}
}

func TestLoginRejectsWrongPasswordAndUnknownUser(t *testing.T) {
	users := newFakeUserRepo(&domain.User{
		ID:           "u1",
		Email:        "ada@example.com",
		PasswordHash: hash(t, "correct-horse"),
		Role:         domain.RoleUser,
	})
	uc := newTestUseCase(users, newFakeSessionRepo())

	if _, err := uc.Login(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	// Unknown accounts fail identically so the response does not leak
	// which emails exist.
	if _, err := uc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}

	if _, err := uc.Login(context.Background(), "Ada@Example.com", "correct-horse"); err != nil {
		t.Errorf("valid login error = %v", err)
	}
}

func TestRefreshRemovesExpiredSession(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", Email: "a@b.com"})
	sessions := newFakeSessionRepo()
	sessions.sessions["s1"] = &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	uc := newTestUseCase(users, sessions)

	if _, err := uc.Refresh(context.Background(), "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Refresh() error = %v, want ErrSessionNotFound", err)
	}
	if _, ok := sessions.sessions["s1"]; ok {
		t.Error("expired session not removed")
	}
}

func TestRefreshExtendsLiveSession(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", Email: "a@b.com"})
	sessions := newFakeSessionRepo()
	sessions.sessions["s1"] = &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	uc := newTestUseCase(users, sessions)

	result, err := uc.Refresh(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if result.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", result.SessionID)
	}
	if remaining := time.Until(sessions.sessions["s1"].ExpiresAt); remaining < 23*time.Hour {
		t.Errorf("session extended by %v, want the full session TTL", remaining)
	}
}
