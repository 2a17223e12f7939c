package models

import "time"

// CommentAuthorType identifies who authored a comment.
type CommentAuthorType string

const (
	CommentAuthorAdmin     CommentAuthorType = "ADMIN"
	CommentAuthorWriter    CommentAuthorType = "WRITER"
	CommentAuthorAnonymous CommentAuthorType = "ANONYMOUS"
)

// Comment is a reader reaction on a published article.
// IsApproved and IsSpam are independent flags; no constraint forbids both.
type Comment struct {
	ID         string            `db:"id" json:"id"`
	NewsID     string            `db:"news_id" json:"news_id"`
	UserID     *string           `db:"user_id" json:"user_id,omitempty"`
	UserType   CommentAuthorType `db:"user_type" json:"user_type"`
	AuthorName string            `db:"author_name" json:"author_name"`
	Body       string            `db:"body" json:"body"`
	IsApproved bool              `db:"is_approved" json:"is_approved"`
	IsSpam     bool              `db:"is_spam" json:"is_spam"`
	ApprovedAt *time.Time        `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// CommentFilter constrains comment listings.
type CommentFilter struct {
	NewsID   string
	Approved *bool
	Spam     *bool
	Page     int
	PageSize int
}
