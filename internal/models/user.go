package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role represents the closed set of portal principals.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// User is an authenticated principal, distinct from the Student or
// Teacher record it may be linked to. A Student or Teacher only becomes
// loggable once a corresponding User exists (or, for students, through
// the first-login bootstrap).
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
	LinkedID     string `json:"linkedId,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	IsRegistered bool   `json:"isRegistered,omitempty"`
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// LoginRequest holds credentials for resolving a principal.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"required"`
	Grade    Grade  `json:"grade,omitempty"`
}

// LoginResponse returns the issued token and resolved principal.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID       string `json:"user_id"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
	LinkedID     string `json:"linked_id,omitempty"`
	IsRegistered bool   `json:"is_registered"`
	jwt.RegisteredClaims
}
