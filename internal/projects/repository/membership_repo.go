package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// MembershipRepository tracks contributor membership in projects.
type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Add records a membership; re-joining is a no-op.
func (r *MembershipRepository) Add(ctx context.Context, projectID, userID, role string) error {
	const q = `
INSERT INTO project_memberships (project_id, user_id, role)
VALUES ($1, $2, $3)
ON CONFLICT (project_id, user_id) DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, q, projectID, userID, role); err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

// ProjectIDs returns the ids of every project the user is a member of.
func (r *MembershipRepository) ProjectIDs(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT project_id FROM project_memberships WHERE user_id = $1;`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
