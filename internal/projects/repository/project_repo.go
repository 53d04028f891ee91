package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, tech_stack, owner_id, github_repo_id,
	commits, contributors, open_issues, time_saved_minutes,
	joined_members, setup_time_estimate_minutes, created_at, updated_at`

// Create inserts the project record, assigning an id when none is set.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.Name == "" {
		return fmt.Errorf("name required")
	}
	if p.OwnerID == "" {
		return fmt.Errorf("owner id required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.SetupTimeEstimateMinutes == 0 {
		p.SetupTimeEstimateMinutes = domain.DefaultSetupTimeEstimateMinutes
	}

	const q = `
INSERT INTO projects (id, name, description, tech_stack, owner_id, github_repo_id,
	commits, contributors, open_issues, time_saved_minutes,
	joined_members, setup_time_estimate_minutes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Description, pq.Array(p.TechStack), p.OwnerID, p.GitHubRepoID,
		p.Metadata.Commits, p.Metadata.Contributors, p.Metadata.OpenIssues, p.Metadata.TimeSavedMinutes,
		pq.Array(p.JoinedMembers), p.SetupTimeEstimateMinutes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	return nil
}

// GetByID returns one project or domain.ErrProjectNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListOwned returns the projects owned by the given user, newest first.
func (r *ProjectRepository) ListOwned(ctx context.Context, ownerID string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, ownerID)
}

// ListByIDs returns the projects matching the given ids.
func (r *ProjectRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = ANY($1) ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, pq.Array(ids))
}

func (r *ProjectRepository) queryProjects(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var techStack, joinedMembers pq.StringArray
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &techStack, &p.OwnerID, &p.GitHubRepoID,
		&p.Metadata.Commits, &p.Metadata.Contributors, &p.Metadata.OpenIssues, &p.Metadata.TimeSavedMinutes,
		&joinedMembers, &p.SetupTimeEstimateMinutes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TechStack = techStack
	p.JoinedMembers = joinedMembers
	return &p, nil
}
