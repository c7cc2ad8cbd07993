package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one device session per refresh token. Refresh rotation bumps
// IssuedAt, which also invalidates the previous refresh token for the device.
type Session struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	DeviceID  string    `gorm:"type:uuid;not null;uniqueIndex" json:"device_id"`
	IP        string    `gorm:"type:varchar(45);not null" json:"ip"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Session) TableName() string {
	return "sessions"
}
