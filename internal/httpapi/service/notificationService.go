package service

import (
	"context"

	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"
)

// recentNotificationLimit caps the notification list; older entries stay in
// the store but are not returned.
const recentNotificationLimit = 50

type NotificationService interface {
	ListRecent(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListRecent(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, recentNotificationLimit)
}

// MarkRead relies on the repository folding ownership into the lookup
// predicate: someone else's notification is repository.ErrNotFound, with no
// separate authorization step to leak existence through.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
