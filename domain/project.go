package domain

import "time"

// Project is a coarser grouping than Category. Deleting a project
// detaches its tasks instead of deleting them.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	OwnerID     string    `json:"ownerId"`
	TaskCount   int       `json:"taskCount"`
	Owner       *UserRef  `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Project) ResourceOwner() string {
	if p == nil {
		return ""
	}
	return p.OwnerID
}
