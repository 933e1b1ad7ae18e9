package models

import "time"

// Role is the authorization label carried by a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored or configured label into a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id"`
	Username     string    `json:"username" db:"username" bson:"username"`
	Email        string    `json:"email" db:"email" bson:"email"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"password_hash"` // Never expose this to the client
	Role         Role      `json:"role" db:"role" bson:"role"`
	IsActive     bool      `json:"isActive" db:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OwnerSummary is the public part of a user joined onto admin task listings.
type OwnerSummary struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}
