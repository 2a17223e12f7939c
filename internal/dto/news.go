package dto

import "time"

// CreateNewsRequest is the payload for drafting a new article.
type CreateNewsRequest struct {
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Body        string  `json:"body"`
	CoverPath   *string `json:"cover_path,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	AuthorEmail *string `json:"author_email,omitempty"`
}

// UpdateNewsRequest carries partial article edits. Nil fields are left alone.
type UpdateNewsRequest struct {
	Title       *string `json:"title,omitempty"`
	Excerpt     *string `json:"excerpt,omitempty"`
	Body        *string `json:"body,omitempty"`
	CoverPath   *string `json:"cover_path,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	AuthorEmail *string `json:"author_email,omitempty"`
}

// RejectNewsRequest records the reviewer's reason.
type RejectNewsRequest struct {
	Reason string `json:"reason"`
}

// ScheduleNewsRequest sets a future publish time.
type ScheduleNewsRequest struct {
	PublishAt time.Time `json:"publish_at"`
}
