package services

import (
	"github.com/Nyaguthii-C/LetsChat/internal/auth"
	"github.com/Nyaguthii-C/LetsChat/internal/models"
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(db *gorm.DB, userID string) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		ProfilePhoto: req.ProfilePhoto,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.DatabaseError(err, "auth", "failed to create user")
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Refresh reissues a token for an already-authenticated user. The account
// is looked up again so a deleted user cannot keep renewing a session.
func (s *AuthServiceImpl) Refresh(db *gorm.DB, userID string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return s.issue(user)
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
