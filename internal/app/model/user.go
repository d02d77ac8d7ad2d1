package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:255;not null;default:''" json:"name"` // display name, seeded from username
	HomeAddress  *string   `gorm:"size:255" json:"home_address"`
	Street       *string   `gorm:"size:255" json:"street"`
	City         *string   `gorm:"size:255" json:"city"`
	Region       *string   `gorm:"size:255" json:"region"`
	Country      *string   `gorm:"size:255" json:"country"`
	AvatarURL    *string   `gorm:"size:2048" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
