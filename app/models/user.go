package models

import "gorm.io/gorm"

// Role values stored on User.Role.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleRestaurant = "restaurant"
)

// User is the primary user model.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:user" json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsRestaurant reports whether the user may manage a restaurant.
func (u *User) IsRestaurant() bool { return u.Role == RoleRestaurant }
