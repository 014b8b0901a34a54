package models

import (
	"time"

	"gorm.io/gorm"
)

// Reply represents an answer left on a post. At most one reply per post
// carries IsBest once the post is resolved.
type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Post      Post           `gorm:"foreignKey:PostID" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	IsBest    bool           `gorm:"not null;default:false" json:"is_best"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
