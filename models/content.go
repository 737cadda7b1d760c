// api/models/content.go
package models

import "time"

// Contact request statuses.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in-progress"
	ContactStatusCompleted  = "completed"
)

// ContactStatuses is the fixed status domain, in display order.
var ContactStatuses = []string{ContactStatusNew, ContactStatusInProgress, ContactStatusCompleted}

type ContactRequest struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
