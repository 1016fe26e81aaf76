package domain

import "time"

// Comment is a user-authored note on a task.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	Author    *UserRef  `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) ResourceOwner() string {
	if c == nil {
		return ""
	}
	return c.AuthorID
}
