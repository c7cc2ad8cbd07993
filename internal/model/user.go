package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Login        string `gorm:"type:varchar(10);not null;uniqueIndex" json:"login"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// Registration must be confirmed by email before login is allowed
	IsEmailConfirmed          bool       `gorm:"default:false" json:"is_email_confirmed"`
	ConfirmationCode          *string    `gorm:"type:uuid;index" json:"-"`
	ConfirmationCodeExpiresAt *time.Time `json:"-"`

	PasswordRecoveryCode          *string    `gorm:"type:uuid;index" json:"-"`
	PasswordRecoveryCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
