package model

import "time"

// Role distinguishes regular members from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered member of the scout group.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	ScoutGroup   string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity attached to every call.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
