package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/audioclear/internal/denoise"
	"github.com/RMahshie/audioclear/pkg/models"
)

// MockResultRepository implements repository.ResultRepository for testing
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Append(ctx context.Context, result *models.HearingTestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) ListAll(ctx context.Context) ([]*models.HearingTestResult, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.HearingTestResult), args.Error(1)
}

func (m *MockResultRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockClipProcessor implements ClipProcessor for testing
type MockClipProcessor struct {
	mock.Mock
}

func (m *MockClipProcessor) Process(ctx context.Context, audioDataURI string) (*denoise.Outcome, error) {
	args := m.Called(ctx, audioDataURI)
	out, _ := args.Get(0).(*denoise.Outcome)
	return out, args.Error(1)
}

func (m *MockClipProcessor) Fetch(ctx context.Context, clipID string) ([]byte, string, error) {
	args := m.Called(ctx, clipID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func (m *MockClipProcessor) Discard(ctx context.Context, clipID string) error {
	args := m.Called(ctx, clipID)
	return args.Error(0)
}

// requireStatus asserts err is a huma error carrying status
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected huma status error, got %v", err)
	require.Equal(t, status, se.GetStatus())
}
