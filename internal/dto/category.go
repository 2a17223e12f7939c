package dto

// CreateCategoryRequest adds a new article category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name"`
}
