package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM project_stars").
		WithArgs("p1", "user_1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	repo := NewStarRepository(db)
	exists, err := repo.Exists(context.Background(), "p1", "user_1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStarExists_NoRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM project_stars").
		WithArgs("p1", "user_1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	repo := NewStarRepository(db)
	exists, err := repo.Exists(context.Background(), "p1", "user_1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStarAddAndRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO project_stars").
		WithArgs("p1", "user_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM project_stars").
		WithArgs("p1", "user_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewStarRepository(db)
	require.NoError(t, repo.Add(context.Background(), "p1", "user_1"))
	require.NoError(t, repo.Remove(context.Background(), "p1", "user_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStarProjectIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT project_id FROM project_stars").
		WithArgs("user_1").
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow("p1").AddRow("p2"))

	repo := NewStarRepository(db)
	ids, err := repo.ProjectIDs(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}
