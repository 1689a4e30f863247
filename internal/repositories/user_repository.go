package repositories

import "marketplace/internal/models"

// UserRepository defines the interface for user data access.
// Emails are stored lowercased; callers normalize before lookups.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
}
