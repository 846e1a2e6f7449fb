package services

import (
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error)
	ListUsers(db *gorm.DB) ([]dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "user", "failed to list users")
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.ToUserResponse(&users[i]))
	}
	return responses, nil
}
