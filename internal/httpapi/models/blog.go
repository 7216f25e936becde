package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	Published bool      `gorm:"default:false" json:"published"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Blog
func (blog *Blog) BeforeCreate(tx *gorm.DB) (err error) {
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	return
}

func (Blog) TableName() string {
	return "blogs"
}
