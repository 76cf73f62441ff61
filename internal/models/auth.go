package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	User         UserInfo  `json:"user"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
}

// JWTClaims is the access-token payload. The linked student/teacher id lets
// the per-request Authorizer be constructed without a user lookup.
type JWTClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	Role      UserRole   `json:"role"`
	Email     string     `json:"email"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	jwt.RegisteredClaims
}
