package dto

import "github.com/Nyaguthii-C/LetsChat/internal/models"

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		ProfilePhoto: user.ProfilePhoto,
	}
}

// SenderData is the compact user shape embedded in realtime frames.
type SenderData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profile_photo"`
}

func ToSenderData(user *models.User) SenderData {
	return SenderData{
		ID:           user.ID,
		Name:         user.FullName,
		ProfilePhoto: user.ProfilePhoto,
	}
}
