package repository

import (
	"context"
	"fmt"

	"bloghub/internal/httpapi/models"

	"gorm.io/gorm"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Blog, int64, error)
	Update(ctx context.Context, id, authorID, title, content string) (*models.Blog, error)
	Delete(ctx context.Context, id, authorID string) (*models.Blog, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	// GORM populates blog.ID and blog.CreatedAt
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").First(&blog, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &blog, nil
}

func (r *blogRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Blog, int64, error) {
	var list []models.Blog
	var total int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// Update applies new title/content only when the row belongs to authorID.
// Ownership lives in the predicate so a missing blog and someone else's blog
// are the same ErrNotFound.
func (r *blogRepository) Update(ctx context.Context, id, authorID, title, content string) (*models.Blog, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(map[string]any{"title": title, "content": content})
	if result.Error != nil {
		return nil, fmt.Errorf("update blog: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the row only when it belongs to authorID, returning the
// deleted blog so callers can still reference its title.
func (r *blogRepository) Delete(ctx context.Context, id, authorID string) (*models.Blog, error) {
	blog, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Blog{})
	if result.Error != nil {
		return nil, fmt.Errorf("delete blog: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return blog, nil
}
