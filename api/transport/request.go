package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	SessionID string `json:"sessionId"`
}

// TaskCreateRequest uses RFC 3339 for dueDate; categoryId, projectId
// and dueDate may be omitted.
type TaskCreateRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	DueDate       string   `json:"dueDate"`
	CategoryID    string   `json:"categoryId"`
	ProjectID     string   `json:"projectId"`
	TaggedUserIDs []string `json:"taggedUserIds"`
}

// TaskUpdateRequest is a partial update. Absent fields are untouched;
// an explicit empty string on dueDate, categoryId or projectId clears
// the field. A present taggedUserIds replaces the whole tag set.
type TaskUpdateRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status"`
	Priority      *string   `json:"priority"`
	DueDate       *string   `json:"dueDate"`
	CategoryID    *string   `json:"categoryId"`
	ProjectID     *string   `json:"projectId"`
	TaggedUserIDs *[]string `json:"taggedUserIds"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type ProjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ProfileUpdateRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
