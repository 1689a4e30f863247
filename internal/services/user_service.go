package services

import (
	"fmt"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
)

// ProfileUpdate carries the profile fields a user may change about
// themselves. Empty fields are left untouched.
type ProfileUpdate struct {
	DisplayName string `json:"displayName" validate:"omitempty,min=2,max=100"`
	FirstName   string `json:"firstName" validate:"omitempty,max=100"`
	LastName    string `json:"lastName" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,max=500"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Bio         string `json:"bio" validate:"omitempty,max=500"`
}

// UserService handles business logic for user profiles and administration.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID retrieves a single user.
func (s *UserService) GetByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile applies the non-empty fields of the update to the caller's
// own profile. Role, rating, and counters cannot be changed this way.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != "" {
		user.DisplayName = update.DisplayName
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.PhotoURL != "" {
		user.PhotoURL = update.PhotoURL
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Location != "" {
		user.Location = update.Location
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// List returns all users. Admin only.
func (s *UserService) List(actor policy.Actor) ([]models.User, error) {
	if !policy.Allows(actor, policy.UserList, policy.Resource{}) {
		return nil, fmt.Errorf("listing users requires admin: %w", ErrForbidden)
	}
	return s.userRepo.GetAll()
}

// Delete removes a user account. Admin only.
func (s *UserService) Delete(actor policy.Actor, id string) error {
	if !policy.Allows(actor, policy.UserDelete, policy.Resource{}) {
		return fmt.Errorf("deleting users requires admin: %w", ErrForbidden)
	}
	return s.userRepo.Delete(id)
}
