package models

import (
	"strings"
	"time"
)

// Comment is owned by exactly one task and stored inside the task row.
type Comment struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	UserID      uint64       `json:"user"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Complete reports whether every attachment field is present.
func (a Attachment) Complete() bool {
	return strings.TrimSpace(a.Name) != "" &&
		strings.TrimSpace(a.URL) != "" &&
		strings.TrimSpace(a.Type) != "" &&
		a.Size > 0
}
