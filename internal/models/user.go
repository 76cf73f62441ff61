package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole selects which Authorizer implementation serves a request.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManagement UserRole = "management"
	RoleTeacher    UserRole = "teacher"
	RoleStudent    UserRole = "student"
)

// User represents an application account stored in the users table. Student
// and teacher accounts link to their person-level row so the per-request
// Authorizer can answer ownership questions without an extra query.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	StudentID    *uuid.UUID `db:"student_id" json:"student_id,omitempty"`
	TeacherID    *uuid.UUID `db:"teacher_id" json:"teacher_id,omitempty"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
