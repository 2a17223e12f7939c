package dto

// CreateCommentRequest is the public payload for commenting on an article.
type CreateCommentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}
