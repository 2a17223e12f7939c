package models

import "time"

// MediaType classifies uploaded article assets.
type MediaType string

const (
	MediaTypeImage    MediaType = "IMAGE"
	MediaTypeVideo    MediaType = "VIDEO"
	MediaTypeDocument MediaType = "DOCUMENT"
)

// ValidMediaType reports whether the given value is a known media type.
func ValidMediaType(t MediaType) bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeDocument:
		return true
	}
	return false
}

// Media represents a file attached to an article, pending admin review.
type Media struct {
	ID                string     `db:"id" json:"id"`
	NewsID            string     `db:"news_id" json:"news_id"`
	MediaType         MediaType  `db:"media_type" json:"media_type"`
	FilePath          string     `db:"file_path" json:"file_path"`
	FileSize          int64      `db:"file_size" json:"file_size"`
	PositionInArticle int        `db:"position_in_article" json:"position_in_article"`
	IsApproved        bool       `db:"is_approved" json:"is_approved"`
	ApprovedBy        *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	RejectionReason   *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	UploadedBy        string     `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt        time.Time  `db:"uploaded_at" json:"uploaded_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// MediaFilter constrains media listings.
type MediaFilter struct {
	NewsID     string
	UploadedBy string
	Approved   *bool
	Type       MediaType
	Page       int
	PageSize   int
}
