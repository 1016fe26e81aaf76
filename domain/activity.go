package domain

import (
	"encoding/json"
	"time"
)

// Activity actions.
const (
	ActivityTaskCreated   = "task_created"
	ActivityStatusChanged = "status_changed"
	ActivityCommentAdded  = "comment_added"
	ActivityFileAttached  = "file_attached"
)

// Activity is one append-only audit entry on a task's timeline.
type Activity struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	TaskID    string          `json:"taskId"`
	ActorID   string          `json:"actorId"`
	Actor     *UserRef        `json:"actor,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewActivity builds an entry, marshaling details best-effort; a detail
// payload that cannot marshal is recorded as an entry without details
// rather than dropped.
func NewActivity(action, taskID, actorID string, details interface{}) *Activity {
	a := &Activity{
		Action:  action,
		TaskID:  taskID,
		ActorID: actorID,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			a.Details = raw
		}
	}
	return a
}
