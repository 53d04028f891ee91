package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
)

// MetricsRepository persists one immutable record per provisioning attempt.
type MetricsRepository struct {
	db *sql.DB
}

func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Record inserts the attempt record. Rows are never updated.
func (r *MetricsRepository) Record(ctx context.Context, m *domain.CreationMetrics) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	const q = `
INSERT INTO repo_creation_metrics
	(id, user_id, repository_name, github_repo_id, status, error_type, error_message, retry_count, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q,
		m.ID, m.UserID, m.RepositoryName, m.GitHubRepoID,
		string(m.Status), m.ErrorType, m.ErrorMessage, m.RetryCount, m.DurationMS,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert creation metrics: %w", err)
	}

	return nil
}
