package domain

import "time"

// Task statuses.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Task priorities.
const (
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityNormal = "NORMAL"
	PriorityLow    = "LOW"
)

// Task represents a unit of work owned by one user and optionally shared
// with tagged collaborators.
type Task struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CategoryID    *string    `json:"categoryId,omitempty"`
	ProjectID     *string    `json:"projectId,omitempty"`
	TaggedUserIDs []string   `json:"taggedUserIds,omitempty"`
	Owner         *UserRef   `json:"owner,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// VisibleUserIDs returns the owner plus all tagged users, deduplicated.
// Every user in this set may see the task and receives its reminders.
func (t *Task) VisibleUserIDs() []string {
	if t == nil {
		return nil
	}
	seen := map[string]struct{}{t.OwnerID: {}}
	ids := []string{t.OwnerID}
	for _, id := range t.TaggedUserIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ResourceOwner implements the authz Owned contract.
func (t *Task) ResourceOwner() string {
	if t == nil {
		return ""
	}
	return t.OwnerID
}

func ValidTaskStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ValidTaskPriority(priority string) bool {
	switch priority {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}
