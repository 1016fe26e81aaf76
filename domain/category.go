package domain

import "time"

// Default swatches applied when a client omits a color.
const (
	DefaultCategoryColor       = "#6366f1"
	UncategorizedCategoryColor = "#6b7280"
)

// Category groups tasks for one owner.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	OwnerID   string    `json:"ownerId"`
	TaskCount int       `json:"taskCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Category) ResourceOwner() string {
	if c == nil {
		return ""
	}
	return c.OwnerID
}
