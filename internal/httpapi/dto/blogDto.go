package dto

import (
	"bloghub/internal/httpapi/models"
)

// CreateBlogDTO used for POST /api/user/blog
type CreateBlogDTO struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateBlogDTO used for PUT /api/user/blog/:blogid
type UpdateBlogDTO struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PaginatedBlogsResponse mirrors the listing envelope the SPA consumes.
type PaginatedBlogsResponse struct {
	TotalItems  int64         `json:"totalItems"`
	CurrentPage int           `json:"currentPage"`
	All         []models.Blog `json:"all"`
	TotalPages  int           `json:"totalPages"`
}
