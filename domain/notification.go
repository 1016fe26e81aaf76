package domain

import "time"

// Notification types. Rows are only ever written by server-side logic
// (events and the reminder sweep), never directly by clients.
const (
	NotificationReminder     = "reminder"
	NotificationComment      = "comment"
	NotificationTagged       = "tagged"
	NotificationStatusChange = "status_change"
)

// Reminder sub-kinds. Stored explicitly so deduplication never has to
// inspect rendered message text.
const (
	ReminderUpcoming = "upcoming"
	ReminderOverdue  = "overdue"
)

// Notification is an immutable message addressed to one user; only the
// Read flag ever changes after creation.
type Notification struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ReminderKind string    `json:"reminderKind,omitempty"`
	Message      string    `json:"message"`
	TaskID       string    `json:"taskId"`
	UserID       string    `json:"userId"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NotificationFeed is the payload of the notification list endpoint:
// the newest notifications plus an unread tally.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}
