package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
)

func TestMetricsRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO repo_creation_metrics").
		WithArgs(sqlmock.AnyArg(), "user_1", "demo", "42", "success", "", "", 0, int64(1200)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewMetricsRepository(db)
	m := &domain.CreationMetrics{
		UserID:         "user_1",
		RepositoryName: "demo",
		GitHubRepoID:   "42",
		Status:         domain.CreationSucceeded,
		DurationMS:     1200,
	}
	require.NoError(t, repo.Record(context.Background(), m))

	assert.NotEmpty(t, m.ID, "id assigned when missing")
	assert.Equal(t, now, m.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsRecord_FailureRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO repo_creation_metrics").
		WithArgs("m-1", "user_1", "demo", "", "failure", "database", "insert failed", 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	repo := NewMetricsRepository(db)
	m := &domain.CreationMetrics{
		ID:             "m-1",
		UserID:         "user_1",
		RepositoryName: "demo",
		Status:         domain.CreationFailed,
		ErrorType:      "database",
		ErrorMessage:   "insert failed",
		RetryCount:     2,
	}
	require.NoError(t, repo.Record(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}
