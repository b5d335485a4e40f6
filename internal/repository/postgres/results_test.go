package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/audioclear/pkg/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresResultRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresResultRepository(db).(*PostgresResultRepository)
	return db, mock, repo
}

func TestAppend_StoresSortedThresholds(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	result := &models.HearingTestResult{
		ID:        "0b8a9a43-7d0e-4c39-9a53-0e0f3cba1d55",
		CreatedAt: createdAt,
		Thresholds: []models.ThresholdPoint{
			{Frequency: 1000, Level: 15},
			{Frequency: 125, Level: 5},
		},
	}

	mock.ExpectExec(`INSERT INTO hearing_results`).
		WithArgs(result.ID, createdAt, `[{"frequency":125,"decibel":5},{"frequency":1000,"decibel":15}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Append(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DatabaseError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO hearing_results`).WillReturnError(assert.AnError)

	err := repo.Append(context.Background(), &models.HearingTestResult{ID: "x", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	newer := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at", "thresholds"}).
		AddRow("result-2", newer, []byte(`[{"frequency":250,"decibel":20},{"frequency":125,"decibel":10}]`)).
		AddRow("result-1", older, []byte(`[{"frequency":125,"decibel":0}]`))

	mock.ExpectQuery(`SELECT id, created_at, thresholds\s+FROM hearing_results\s+ORDER BY created_at DESC`).
		WillReturnRows(rows)

	results, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "result-2", results[0].ID)
	assert.Equal(t, newer, results[0].CreatedAt)
	assert.Equal(t, []models.ThresholdPoint{{Frequency: 125, Level: 10}, {Frequency: 250, Level: 20}}, results[0].Thresholds)
	assert.Equal(t, "result-1", results[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_EmptyResult(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, created_at, thresholds`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "thresholds"}))

	results, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_CorruptThresholds(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at", "thresholds"}).
		AddRow("broken", time.Now(), []byte(`not json`))
	mock.ExpectQuery(`SELECT id, created_at, thresholds`).WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	assert.ErrorContains(t, err, "broken")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_QueryError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, created_at, thresholds`).WillReturnError(assert.AnError)

	_, err := repo.ListAll(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClearAll(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM hearing_results`).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.ClearAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
