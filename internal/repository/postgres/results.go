package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/RMahshie/audioclear/internal/repository"
	"github.com/RMahshie/audioclear/pkg/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *sql.DB
}

// NewPostgresResultRepository creates a new PostgreSQL result repository
func NewPostgresResultRepository(db *sql.DB) repository.ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Append inserts a saved result
func (r *PostgresResultRepository) Append(ctx context.Context, result *models.HearingTestResult) error {
	thresholds, err := json.Marshal(models.SortThresholdPoints(result.Thresholds))
	if err != nil {
		return fmt.Errorf("failed to marshal thresholds: %w", err)
	}

	query := `
		INSERT INTO hearing_results (id, created_at, thresholds)
		VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, result.ID, result.CreatedAt, string(thresholds)); err != nil {
		return fmt.Errorf("failed to insert hearing result: %w", err)
	}
	return nil
}

// ListAll returns every saved result, newest first
func (r *PostgresResultRepository) ListAll(ctx context.Context) ([]*models.HearingTestResult, error) {
	query := `
		SELECT id, created_at, thresholds
		FROM hearing_results
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hearing results: %w", err)
	}
	defer rows.Close()

	results := []*models.HearingTestResult{}
	for rows.Next() {
		var result models.HearingTestResult
		var thresholds []byte

		if err := rows.Scan(&result.ID, &result.CreatedAt, &thresholds); err != nil {
			return nil, fmt.Errorf("failed to scan hearing result: %w", err)
		}
		if err := json.Unmarshal(thresholds, &result.Thresholds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal thresholds for %s: %w", result.ID, err)
		}
		result.Thresholds = models.SortThresholdPoints(result.Thresholds)

		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hearing results: %w", err)
	}

	return results, nil
}

// ClearAll deletes every saved result
func (r *PostgresResultRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM hearing_results`); err != nil {
		return fmt.Errorf("failed to clear hearing results: %w", err)
	}
	return nil
}
