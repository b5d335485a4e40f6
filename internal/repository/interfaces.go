package repository

import (
	"context"

	"github.com/RMahshie/audioclear/pkg/models"
)

// ResultRepository persists saved hearing test results. Results are never
// modified after Append; ClearAll is the only way to remove them.
type ResultRepository interface {
	Append(ctx context.Context, result *models.HearingTestResult) error
	ListAll(ctx context.Context) ([]*models.HearingTestResult, error)
	ClearAll(ctx context.Context) error
}
