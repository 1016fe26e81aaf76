package domain

import "time"

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an authenticated identity. PasswordHash never leaves
// the persistence and auth layers.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Ref strips the user down to the fields safe to embed in other payloads.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserRef is the public projection of a user embedded in tasks,
// comments and attachments, and listed by the user directory.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
