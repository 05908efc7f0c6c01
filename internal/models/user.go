package models

import "time"

// User roles.
const (
	// RoleAdmin marks template authors and user managers.
	RoleAdmin = "admin"
	// RoleUser marks regular rubric authors.
	RoleUser = "user"
)

// User represents a rubric author account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text;not null;index"`       // Contact email.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Role string `gorm:"type:text;not null;default:'user'"` // Flat role flag: admin or user.

	Active   bool `gorm:"not null;default:true"`  // Whether the account can sign in.
	Disabled bool `gorm:"not null;default:false"` // Administrative lockout flag.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
