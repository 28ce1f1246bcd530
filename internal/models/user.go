package models

import "time"

// UserRole represents the marketplace role stored on a user record.
type UserRole string

const (
	RoleStudent    UserRole = ""
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User represents a marketplace account, keyed by e-mail.
type User struct {
	ID        string    `db:"id" json:"_id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	PhotoURL  string    `db:"photo_url" json:"photo,omitempty"`
	Role      UserRole  `db:"role" json:"role,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
