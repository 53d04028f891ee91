package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when no profile exists for a clerk user id.
var ErrUserNotFound = errors.New("user not found")

// User is the platform profile keyed by the Clerk identity.
type User struct {
	ClerkUserID     string     `json:"clerk_user_id"`
	GitHubUserID    string     `json:"github_user_id,omitempty"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Role            string     `json:"role"` // admin | user
	XP              int        `json:"xp"`
	Level           int        `json:"level"`
	Streak          int        `json:"streak"`
	LastActiveAt    *time.Time `json:"last_active_at,omitempty"`
	GitHubConnected bool       `json:"github_connected"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Profile is the subset of fields synced from the identity provider on
// login.
type Profile struct {
	Name            string
	Email           string
	AvatarURL       string
	GitHubUserID    string
	GitHubConnected bool
}
