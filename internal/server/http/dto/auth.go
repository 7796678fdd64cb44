package dto

import "time"

// RegisterRequest describes the account creation payload.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ScoutGroup string `json:"scout_group"`
}

// LoginRequest describes the credentials payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse describes a user visible through the API.
type UserResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	ScoutGroup  string     `json:"scout_group"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse pairs the user with the issued token.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
