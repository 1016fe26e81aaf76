package authz

import "github.com/taskhive/backend/domain"

// Owned is any resource with a single owning user.
type Owned interface {
	ResourceOwner() string
}

// Policy is the single authorization decision point. Route handlers and
// use cases never compare roles or owner ids inline; they ask Policy.
type Policy struct{}

func NewPolicy() Policy {
	return Policy{}
}

// CanModify allows admins and the resource owner.
func (Policy) CanModify(subject *domain.User, resource Owned) bool {
	if subject == nil || resource == nil {
		return false
	}
	owner := resource.ResourceOwner()
	if owner == "" {
		return false
	}
	return subject.IsAdmin() || owner == subject.ID
}

// CanViewTask additionally admits tagged collaborators.
func (Policy) CanViewTask(subject *domain.User, task *domain.Task) bool {
	if subject == nil || task == nil {
		return false
	}
	if subject.IsAdmin() || task.OwnerID == subject.ID {
		return true
	}
	for _, id := range task.TaggedUserIDs {
		if id == subject.ID {
			return true
		}
	}
	return false
}

// ListScope returns the owner filter for list queries: admins see
// everything (empty scope), everyone else is restricted to their own
// visible slice.
func (Policy) ListScope(subject *domain.User) string {
	if subject == nil {
		return ""
	}
	if subject.IsAdmin() {
		return ""
	}
	return subject.ID
}
