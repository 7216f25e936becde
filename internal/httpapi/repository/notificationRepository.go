package repository

import (
	"context"

	"bloghub/internal/httpapi/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

// MarkRead flips the read flag in a single predicate-guarded update; a wrong
// owner gets the same ErrNotFound as a missing id.
func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (*models.Notification, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", notificationID).Error; err != nil {
		return nil, translateError(err)
	}
	return &notification, nil
}

// MarkAllRead is idempotent; re-running on an already-read set is a no-op.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("read", true).Error
}
