// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Kuyou application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Nickname    string         `json:"nickname"`
	TotalPoints int            `gorm:"not null;default:0" json:"total_points"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// DisplayNickname returns the user's chosen nickname, or a stable
// pseudonym derived from the user ID when none is set.
func (u *User) DisplayNickname() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return fmt.Sprintf("智者#%04d", u.ID)
}
