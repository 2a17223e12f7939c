package models

import "time"

// NewsStatus captures the editorial review state of an article.
// Review state moves independently of the publish flags.
type NewsStatus string

const (
	NewsStatusDraft    NewsStatus = "DRAFT"
	NewsStatusPending  NewsStatus = "PENDING"
	NewsStatusApproved NewsStatus = "APPROVED"
	NewsStatusRejected NewsStatus = "REJECTED"
)

// ValidNewsStatus reports whether the given value is a known review state.
func ValidNewsStatus(s NewsStatus) bool {
	switch s {
	case NewsStatusDraft, NewsStatusPending, NewsStatusApproved, NewsStatusRejected:
		return true
	}
	return false
}

// News represents a persisted article row.
type News struct {
	ID                 string     `db:"id" json:"id"`
	Title              string     `db:"title" json:"title"`
	Slug               string     `db:"slug" json:"slug"`
	Excerpt            string     `db:"excerpt" json:"excerpt"`
	Body               string     `db:"body" json:"body"`
	CoverPath          *string    `db:"cover_path" json:"cover_path,omitempty"`
	IsPublished        bool       `db:"is_published" json:"is_published"`
	IsScheduled        bool       `db:"is_scheduled" json:"is_scheduled"`
	PublishedAt        *time.Time `db:"published_at" json:"published_at,omitempty"`
	ScheduledPublishAt *time.Time `db:"scheduled_publish_at" json:"scheduled_publish_at,omitempty"`
	Status             NewsStatus `db:"status" json:"status"`
	ApprovedBy         *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	RejectedAt         *time.Time `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason    *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	AuthorEmail        *string    `db:"author_email" json:"author_email,omitempty"`
	CategoryID         *string    `db:"category_id" json:"category_id,omitempty"`
	WriterID           string     `db:"writer_id" json:"writer_id"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// NewsFilter constrains article listings. Zero-valued fields are ignored.
type NewsFilter struct {
	Status        NewsStatus
	WriterID      string
	CategoryID    string
	PublishedOnly bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Search        string
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}
