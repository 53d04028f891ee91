package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openforge-dev/openforge-backend/internal/users/domain"
)

// UserRepository persists platform profiles keyed by clerk user id.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `clerk_user_id, COALESCE(github_user_id, ''), name, email, COALESCE(avatar_url, ''),
	role, xp, level, streak, last_active_at, github_connected, created_at, updated_at`

// GetByClerkID returns one profile or domain.ErrUserNotFound.
func (r *UserRepository) GetByClerkID(ctx context.Context, clerkUserID string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE clerk_user_id = $1;`

	u, err := scanUser(r.db.QueryRowContext(ctx, q, clerkUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Ensure returns the profile for the clerk user, creating a default one when
// none exists yet.
func (r *UserRepository) Ensure(ctx context.Context, clerkUserID string) (*domain.User, error) {
	const insert = `
INSERT INTO users (clerk_user_id, name, email, role, xp, level, streak, github_connected)
VALUES ($1, 'User', '', 'user', 0, 1, 0, FALSE)
ON CONFLICT (clerk_user_id) DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, insert, clerkUserID); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return r.GetByClerkID(ctx, clerkUserID)
}

// Sync upserts the profile fields delivered by the identity provider on
// login and returns the stored profile.
func (r *UserRepository) Sync(ctx context.Context, clerkUserID string, p domain.Profile) (*domain.User, error) {
	const q = `
INSERT INTO users (clerk_user_id, github_user_id, name, email, avatar_url, role, xp, level, streak, github_connected)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), 'user', 0, 1, 0, $6)
ON CONFLICT (clerk_user_id) DO UPDATE SET
	github_user_id = COALESCE(NULLIF(EXCLUDED.github_user_id, ''), users.github_user_id),
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
	github_connected = EXCLUDED.github_connected,
	updated_at = NOW();
`
	_, err := r.db.ExecContext(ctx, q,
		clerkUserID, p.GitHubUserID, p.Name, p.Email, p.AvatarURL, p.GitHubConnected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return r.GetByClerkID(ctx, clerkUserID)
}

// UpdateProgress writes the recomputed XP and level.
func (r *UserRepository) UpdateProgress(ctx context.Context, clerkUserID string, xp, level int) error {
	const q = `UPDATE users SET xp = $2, level = $3, updated_at = NOW() WHERE clerk_user_id = $1;`
	if _, err := r.db.ExecContext(ctx, q, clerkUserID, xp, level); err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	return nil
}

// UpdateStreak writes the advanced streak and activity timestamp.
func (r *UserRepository) UpdateStreak(ctx context.Context, clerkUserID string, streak int, lastActive time.Time) error {
	const q = `UPDATE users SET streak = $2, last_active_at = $3, updated_at = NOW() WHERE clerk_user_id = $1;`
	if _, err := r.db.ExecContext(ctx, q, clerkUserID, streak, lastActive); err != nil {
		return fmt.Errorf("failed to update user streak: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var lastActive sql.NullTime
	err := row.Scan(
		&u.ClerkUserID, &u.GitHubUserID, &u.Name, &u.Email, &u.AvatarURL,
		&u.Role, &u.XP, &u.Level, &u.Streak, &lastActive, &u.GitHubConnected,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastActive.Valid {
		u.LastActiveAt = &lastActive.Time
	}
	return &u, nil
}
