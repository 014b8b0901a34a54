package models

import "time"

// Sympathy represents a user's sympathy mark on a post.
// The combination of UserID and PostID must be unique.
type Sympathy struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_sympathy_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_sympathy_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
