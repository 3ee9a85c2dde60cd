package service

import (
	"testing"

	"booknest-backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetByID(t *testing.T) {
	userRepo := newFakeUserRepo()
	name := "Asha"
	userRepo.users["+919876543210"] = &entity.User{
		ID:          7,
		PhoneNumber: "+919876543210",
		Name:        &name,
		IsVerified:  true,
	}

	s := NewUserService(userRepo, testLogger(t))

	user, err := s.GetByID(7)
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "+919876543210", user.PhoneNumber)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Asha", *user.Name)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	s := NewUserService(newFakeUserRepo(), testLogger(t))

	_, err := s.GetByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users["+919876543210"] = &entity.User{
		ID:          7,
		PhoneNumber: "+919876543210",
	}

	s := NewUserService(userRepo, testLogger(t))

	name := "Asha"
	user, err := s.UpdateProfile(7, &entity.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)

	require.NotNil(t, user.Name)
	assert.Equal(t, "Asha", *user.Name)
}
