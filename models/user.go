package models

import "time"

const (
	RoleTourist = "tourist"
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"uniqueIndex;size:150" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;index" json:"role"`
	PhoneNumber  string `gorm:"column:phone_number;size:50" json:"phoneNumber"`

	// loyalty balance, earned from quizzes and spent on bookings
	Points int `gorm:"column:quiz_points;not null;default:0" json:"points"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
