package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/openforge-dev/openforge-backend/internal/dashboard/domain"
)

// ContributionRepository persists contribution records and serves the
// dashboard aggregates.
type ContributionRepository struct {
	db *sql.DB
}

func NewContributionRepository(db *sql.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Add inserts one contribution record.
func (r *ContributionRepository) Add(ctx context.Context, c *domain.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	const q = `
INSERT INTO contributions (id, user_id, project_id, type, title, description, lines_added, lines_removed, xp_awarded)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q,
		c.ID, c.UserID, c.ProjectID, c.Type, c.Title, c.Description,
		c.LinesAdded, c.LinesRemoved, c.XPAwarded,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

// TotalsFor aggregates the user's whole contribution history in one query.
func (r *ContributionRepository) TotalsFor(ctx context.Context, userID string) (domain.Totals, error) {
	const q = `
SELECT
	COUNT(*) FILTER (WHERE type = 'commit'),
	COUNT(*) FILTER (WHERE type = 'pull_request'),
	COUNT(*) FILTER (WHERE type = 'issue'),
	COALESCE(SUM(lines_added), 0),
	COALESCE(SUM(lines_removed), 0),
	COALESCE(SUM(xp_awarded), 0),
	COUNT(*)
FROM contributions
WHERE user_id = $1;
`
	var t domain.Totals
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&t.Commits, &t.PullRequests, &t.Issues,
		&t.LinesAdded, &t.LinesRemoved, &t.XPAwarded, &t.Count,
	)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("failed to aggregate contributions: %w", err)
	}
	return t, nil
}
