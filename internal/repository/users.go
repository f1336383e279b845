package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/eventhub/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user already exists")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// GetByEmail looks a user up by email. A non-empty role narrows the match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	query := r.db.WithContext(ctx).Where("email = ?", email)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either unique field is taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "user lookup")
	}
	return count > 0, nil
}
