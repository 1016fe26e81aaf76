package domain

import "time"

// Attachment records a file uploaded against a task. The bytes live on
// disk under the configured upload directory; Path is the public URL
// path clients fetch the file from.
type Attachment struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	TaskID     string    `json:"taskId"`
	UploaderID string    `json:"uploaderId"`
	Uploader   *UserRef  `json:"uploader,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Attachment) ResourceOwner() string {
	if a == nil {
		return ""
	}
	return a.UploaderID
}
