package authz

import (
	"testing"

	"github.com/taskhive/backend/domain"
)

func TestCanModify(t *testing.T) {
	policy := NewPolicy()
	owner := &domain.User{ID: "u1", Role: domain.RoleUser}
	other := &domain.User{ID: "u2", Role: domain.RoleUser}
	admin := &domain.User{ID: "u3", Role: domain.RoleAdmin}
	task := &domain.Task{ID: "t1", OwnerID: "u1"}

	tests := []struct {
		name    string
		subject *domain.User
		want    bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"other user", other, false},
		{"nil subject", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.CanModify(tt.subject, task); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewTaskAdmitsTaggedUsers(t *testing.T) {
	policy := NewPolicy()
	task := &domain.Task{ID: "t1", OwnerID: "u1", TaggedUserIDs: []string{"u2"}}

	tagged := &domain.User{ID: "u2", Role: domain.RoleUser}
	stranger := &domain.User{ID: "u9", Role: domain.RoleUser}

	if !policy.CanViewTask(tagged, task) {
		t.Error("tagged user denied view")
	}
	if policy.CanViewTask(stranger, task) {
		t.Error("stranger allowed view")
	}
	if !policy.CanModify(&domain.User{ID: "u1", Role: domain.RoleUser}, task) {
		t.Error("owner denied modify")
	}
	// Tagged users can see but not modify.
	if policy.CanModify(tagged, task) {
		t.Error("tagged user allowed modify")
	}
}

func TestListScope(t *testing.T) {
	policy := NewPolicy()
	if got := policy.ListScope(&domain.User{ID: "u1", Role: domain.RoleAdmin}); got != "" {
		t.Errorf("admin scope = %q, want empty", got)
	}
	if got := policy.ListScope(&domain.User{ID: "u1", Role: domain.RoleUser}); got != "u1" {
		t.Errorf("user scope = %q, want u1", got)
	}
}
