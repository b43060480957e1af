package domain

import "time"

// Role represents the user's permission level in the gallery.
type Role string

const (
	// RoleAdmin may upload, tag, and delete images.
	RoleAdmin Role = "admin"
	// RoleUser may browse and like images.
	RoleUser Role = "user"
)

// User is an account that can like posts and, as admin, manage the gallery.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
