package models

import "time"

// Activity actions recorded by services. Append-only; rows are never
// updated or deleted.
const (
	ActivityActionCreate     = "CREATE"
	ActivityActionUpdate     = "UPDATE"
	ActivityActionDelete     = "DELETE"
	ActivityActionRestore    = "RESTORE"
	ActivityActionApprove    = "APPROVE"
	ActivityActionReject     = "REJECT"
	ActivityActionPublish    = "PUBLISH"
	ActivityActionUnpublish  = "UNPUBLISH"
	ActivityActionSchedule   = "SCHEDULE"
	ActivityActionTransition = "TRANSITION"
	ActivityActionLogin      = "LOGIN"
)

// ActivityLog is one audit-trail row.
type ActivityLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"user_id,omitempty"`
	UserType    *string   `db:"user_type" json:"user_type,omitempty"`
	Action      string    `db:"action" json:"action"`
	ModelType   string    `db:"model_type" json:"model_type"`
	ModelID     *string   `db:"model_id" json:"model_id,omitempty"`
	Changes     []byte    `db:"changes" json:"changes,omitempty"`
	Description string    `db:"description" json:"description"`
	IPAddress   string    `db:"ip_address" json:"ip_address"`
	UserAgent   string    `db:"user_agent" json:"user_agent"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ActivityFilter constrains audit-trail listings.
type ActivityFilter struct {
	UserID    string
	ModelType string
	ModelID   string
	Action    string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
