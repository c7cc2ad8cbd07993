package model

import (
	"encoding/json"
	"time"

	"bloggers-platform/internal/likes"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID               string `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title            string `gorm:"type:varchar(30);not null" json:"title"`
	ShortDescription string `gorm:"type:varchar(100);not null" json:"short_description"`
	Content          string `gorm:"type:varchar(1000);not null" json:"content"`
	BlogID           string `gorm:"type:uuid;not null;index;references:blogs(id)" json:"blog_id"`
	BlogName         string `gorm:"type:varchar(15);not null" json:"blog_name"` // denormalized from blogs

	// Derived like info, maintained by the likes engine
	LikesCount    int    `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int    `gorm:"not null;default:0" json:"dislikes_count"`
	NewestLikers  string `gorm:"type:jsonb;default:'[]'" json:"-"` // up to 3 most recent likers stored as JSON

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Blog Blog `gorm:"foreignKey:BlogID;references:ID" json:"blog,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Post) TableName() string {
	return "posts"
}

// GetNewestLikers returns NewestLikers as a slice of liker entries
func (p *Post) GetNewestLikers() []likes.LikerEntry {
	if p.NewestLikers == "" || p.NewestLikers == "[]" {
		return []likes.LikerEntry{}
	}
	var entries []likes.LikerEntry
	if err := json.Unmarshal([]byte(p.NewestLikers), &entries); err != nil {
		return []likes.LikerEntry{}
	}
	return entries
}

// SetNewestLikers sets NewestLikers from a slice of liker entries
func (p *Post) SetNewestLikers(entries []likes.LikerEntry) error {
	if len(entries) == 0 {
		// Use empty JSON array instead of empty string for PostgreSQL JSONB
		p.NewestLikers = "[]"
		return nil
	}
	bytes, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	p.NewestLikers = string(bytes)
	return nil
}
