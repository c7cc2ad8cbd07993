package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is a user's current like/dislike for a target (post or comment).
// The unique (user_id, target_id) index is what enforces "at most one
// reaction per user per target"; a "None" reaction is never stored, the
// row is deleted instead.
type Reaction struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_user_target,unique" json:"user_id"`
	TargetID  string    `gorm:"type:uuid;not null;index:idx_user_target,unique" json:"target_id"`
	UserLogin string    `gorm:"type:varchar(10);not null" json:"user_login"` // denormalized for newest-likers entries
	Status    string    `gorm:"type:varchar(10);not null" json:"status"`     // Like or Dislike
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"` // recency sort key, set by the engine

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Reaction) TableName() string {
	return "reactions"
}
