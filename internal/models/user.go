package models

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string `gorm:"not null" json:"full_name"`
	ProfilePhoto string `json:"profile_photo"`
	PasswordHash string `gorm:"not null" json:"-"`
}
