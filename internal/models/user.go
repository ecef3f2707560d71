package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the account role reported by the API.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// User is the signed-in account.
type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Role      UserRole `json:"role"`
	CreatedAt Time     `json:"created_at"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
}

// LoginRequest holds credentials for the JSON login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	FullName string   `json:"full_name" validate:"required,max=200"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=student teacher"`
}

// AuthResponse is returned by login and register. User is only present on
// some deployments.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// UpdateProfileRequest patches the current user. Nil fields are left alone.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ChangePasswordRequest is the wire body of the change-password call.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// SessionClaims are the claims carried by the access token. They are decoded
// without verification, for display only.
type SessionClaims struct {
	jwt.RegisteredClaims
}
