package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PostID    string `gorm:"type:uuid;not null;index;references:posts(id)" json:"post_id"`
	UserID    string `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	UserLogin string `gorm:"type:varchar(10);not null" json:"user_login"` // denormalized from users
	Content   string `gorm:"type:varchar(300);not null" json:"content"`

	// Derived like info, maintained by the likes engine (no newest-likers
	// projection for comments, posts only)
	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int `gorm:"not null;default:0" json:"dislikes_count"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Post Post `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Comment) TableName() string {
	return "comments"
}
