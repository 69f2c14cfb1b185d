package app

import (
	"context"

	"github.com/google/uuid"

	"timeclock/models"
	"timeclock/ports"
)

// UserService owns user CRUD
type UserService struct {
	users ports.UserRepository
}

// NewUserService creates a user service
func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create registers a new user
func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	user := models.NewUser(name, email)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get retrieves one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Update rewrites a user's name and email
func (s *UserService) Update(ctx context.Context, id uuid.UUID, name, email string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user; their entries and report processes cascade
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
