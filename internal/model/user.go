package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes students from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User represents an authenticated user. Users are created on first login by
// email and never deleted in this scope; deactivation via IsActive is the only
// destructive mutation.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Avatar    string    `json:"avatar,omitempty" gorm:"size:512"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'student';index"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UnknownUser is the placeholder substituted when a joined uploader or creator
// row is missing, so list queries never fail on dangling references.
func UnknownUser() User {
	return User{Name: "Unknown", Role: RoleStudent, IsActive: true}
}
