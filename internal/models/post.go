package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus defines the resolution state of a post.
type PostStatus string

const (
	// PostStatusActive indicates a post is still open for replies and sympathies.
	PostStatusActive PostStatus = "active"
	// PostStatusResolved indicates the author selected a best answer. Terminal.
	PostStatusResolved PostStatus = "resolved"
)

// Post categories. Every post belongs to exactly one.
const (
	CategoryLove   = "love"
	CategoryWork   = "work"
	CategorySchool = "school"
	CategoryFamily = "family"
	CategoryFriend = "friend"
	CategoryOther  = "other"
)

// Categories lists the valid post categories.
var Categories = []string{
	CategoryLove, CategoryWork, CategorySchool,
	CategoryFamily, CategoryFriend, CategoryOther,
}

// ValidCategory reports whether s is a known post category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// Post represents an anonymous confession in the Kuyou application.
// Nickname is snapshotted at creation so later profile changes never
// deanonymize old posts.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	Nickname      string     `gorm:"not null" json:"nickname"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Category      string     `gorm:"type:varchar(20);not null;index" json:"category"`
	Status        PostStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	SympathyCount int        `gorm:"not null;default:0" json:"sympathy_count"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int `gorm:"->" json:"reply_count"`
	// Sympathized indicates whether the current requesting user sympathized with this post (computed)
	Sympathized bool           `gorm:"->" json:"sympathized"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
