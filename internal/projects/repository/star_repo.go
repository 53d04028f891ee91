package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StarRepository tracks which users starred which projects.
type StarRepository struct {
	db *sql.DB
}

func NewStarRepository(db *sql.DB) *StarRepository {
	return &StarRepository{db: db}
}

// Exists reports whether the user has starred the project.
func (r *StarRepository) Exists(ctx context.Context, projectID, userID string) (bool, error) {
	const q = `SELECT 1 FROM project_stars WHERE project_id = $1 AND user_id = $2;`

	var one int
	err := r.db.QueryRowContext(ctx, q, projectID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add stars the project for the user. Duplicate stars are absorbed by the
// primary key.
func (r *StarRepository) Add(ctx context.Context, projectID, userID string) error {
	const q = `
INSERT INTO project_stars (project_id, user_id)
VALUES ($1, $2)
ON CONFLICT (project_id, user_id) DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, q, projectID, userID); err != nil {
		return fmt.Errorf("failed to star project: %w", err)
	}
	return nil
}

// Remove unstars the project for the user.
func (r *StarRepository) Remove(ctx context.Context, projectID, userID string) error {
	const q = `DELETE FROM project_stars WHERE project_id = $1 AND user_id = $2;`
	if _, err := r.db.ExecContext(ctx, q, projectID, userID); err != nil {
		return fmt.Errorf("failed to unstar project: %w", err)
	}
	return nil
}

// ProjectIDs returns the ids of every project the user starred.
func (r *StarRepository) ProjectIDs(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT project_id FROM project_stars WHERE user_id = $1;`

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
