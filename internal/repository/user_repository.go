package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/warin-dev/sis-api/internal/models"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// UserRepository manages application accounts and refresh-token sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userBaseQuery = `SELECT u.id, u.email, u.password_hash, u.role, u.active,
        u.student_id, u.teacher_id, u.last_login, u.created_at, u.updated_at
        FROM users u`

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return getRow[models.User](ctx, r.db, "user", userBaseQuery+" WHERE u.id = $1", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return getRow[models.User](ctx, r.db, "user", userBaseQuery+" WHERE u.email = $1", email)
}

// UpdateLastLogin stamps the account's most recent successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1", id); err != nil {
		return apperrors.Internal(err, "failed to update last login")
	}
	return nil
}

// StoreRefreshToken persists a refresh-token session.
func (r *UserRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, token, expiresAt); err != nil {
		return apperrors.Internal(err, "failed to store refresh token")
	}
	return nil
}

// GetRefreshToken loads a live session by its opaque token value. Expired and
// revoked sessions surface as not found.
func (r *UserRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return getRow[models.RefreshToken](ctx, r.db, "refresh token",
		`SELECT rt.id, rt.user_id, rt.token, rt.expires_at, rt.created_at, rt.revoked, rt.revoked_at
         FROM refresh_tokens rt
         WHERE rt.token = $1 AND NOT rt.revoked AND rt.expires_at > NOW()`, token)
}

// RevokeRefreshToken ends one session.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE token = $1", token); err != nil {
		return apperrors.Internal(err, "failed to revoke refresh token")
	}
	return nil
}

// RevokeUserTokens ends every live session for the user.
func (r *UserRepository) RevokeUserTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE user_id = $1 AND NOT revoked", userID); err != nil {
		return apperrors.Internal(err, "failed to revoke user tokens")
	}
	return nil
}
