package domain

import "time"

// ProjectMetadata carries the aggregate counters shown on project cards.
type ProjectMetadata struct {
	Commits          int `json:"commits"`
	Contributors     int `json:"contributors"`
	OpenIssues       int `json:"open_issues"`
	TimeSavedMinutes int `json:"time_saved_minutes"`
}

// Project is the local record of a provisioned repository. The remote
// repository is the source of truth; this row is a best-effort mirror
// created after the remote side exists.
type Project struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TechStack     []string        `json:"tech_stack"`
	OwnerID       string          `json:"owner_id"`
	GitHubRepoID  string          `json:"github_repo_id"`
	Metadata      ProjectMetadata `json:"metadata"`
	JoinedMembers []string        `json:"joined_members"`
	// SetupTimeEstimateMinutes is a fixed setup-time-saved estimate
	// attached at creation.
	SetupTimeEstimateMinutes int       `json:"setup_time_estimate_minutes"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DefaultSetupTimeEstimateMinutes is stamped on every new project.
const DefaultSetupTimeEstimateMinutes = 7

// Star marks a user's star on a project.
type Star struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	StarredAt time.Time `json:"starred_at"`
}

// Membership links a contributor to a project.
type Membership struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"` // owner | contributor
	JoinedAt  time.Time `json:"joined_at"`
}

// CreationStatus is the terminal status of one provisioning attempt.
type CreationStatus string

const (
	CreationSucceeded CreationStatus = "success"
	CreationFailed    CreationStatus = "failure"
)

// CreationMetrics is the immutable record of one "create project" call,
// written once at the end of the pipeline and never mutated.
type CreationMetrics struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	RepositoryName string         `json:"repository_name"`
	GitHubRepoID   string         `json:"github_repo_id,omitempty"`
	Status         CreationStatus `json:"status"`
	ErrorType      string         `json:"error_type,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	RetryCount     int            `json:"retry_count"`
	DurationMS     int64          `json:"duration_ms"`
	CreatedAt      time.Time      `json:"created_at"`
}
