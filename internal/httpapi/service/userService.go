package service

import (
	"context"

	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"
)

type UserService interface {
	Sync(ctx context.Context, externalID, email string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Sync lazily materializes the identity-provider user as a local row on
// first authenticated request. Upsert is keyed by email, the join key shared
// with the provider; the surrogate id never changes once created.
func (s *userService) Sync(ctx context.Context, externalID, email string) (*models.User, error) {
	return s.userRepo.UpsertByEmail(ctx, externalID, email)
}
