package dto

// RejectMediaRequest records the reviewer's reason for rejecting an upload.
type RejectMediaRequest struct {
	Reason string `json:"reason"`
}
