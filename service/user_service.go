package service

import (
	"errors"
	"fmt"

	"booknest-backend/entity"
	"booknest-backend/pkg/logger"
	"booknest-backend/repository"
)

// ErrUserNotFound is returned when no user exists for the given id
var ErrUserNotFound = errors.New("user not found")

// UserService interface defines user business operations
type UserService interface {
	GetByID(id int) (*entity.UserResponse, error)
	UpdateProfile(id int, req *entity.UpdateProfileRequest) (*entity.UserResponse, error)
}

// userService implements UserService interface
type userService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(id int) (*entity.UserResponse, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		s.logger.Errorw("Failed to get user by ID", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user.ToResponse(), nil
}

// UpdateProfile updates the optional name and email attributes
func (s *userService) UpdateProfile(id int, req *entity.UpdateProfileRequest) (*entity.UserResponse, error) {
	user, err := s.userRepo.UpdateProfile(id, req.Name, req.Email)
	if err != nil {
		s.logger.Errorw("Failed to update profile", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Infow("Profile updated", "user_id", id)
	return user.ToResponse(), nil
}
