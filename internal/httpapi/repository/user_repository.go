package repository

import (
	"context"
	"fmt"

	"bloghub/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	UpsertByEmail(ctx context.Context, externalID, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpsertByEmail lazily creates the user on first authenticated request.
// Email is the join key to the identity provider; a concurrent first request
// for the same email resolves through the conflict clause.
func (r *userRepository) UpsertByEmail(ctx context.Context, externalID, email string) (*models.User, error) {
	user := &models.User{
		ExternalID: &externalID,
		Email:      email,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"external_id", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	// Re-read so the caller gets the surrogate id even on the conflict path
	return r.FindByEmail(ctx, email)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		// do not return a zero-value user struct on error
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
