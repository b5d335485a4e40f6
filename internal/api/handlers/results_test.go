package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/audioclear/pkg/models"
)

func TestListResults(t *testing.T) {
	older := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	tests := []struct {
		name      string
		stored    []*models.HearingTestResult
		err       error
		wantIDs   []string
		wantError int
	}{
		{
			name: "newest first",
			stored: []*models.HearingTestResult{
				{ID: "a", CreatedAt: older, Thresholds: []models.ThresholdPoint{{Frequency: 500, Level: 10}}},
				{ID: "b", CreatedAt: newer, Thresholds: []models.ThresholdPoint{{Frequency: 250, Level: 5}}},
			},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "empty history",
			stored:  []*models.HearingTestResult{},
			wantIDs: []string{},
		},
		{
			name:      "store failure",
			stored:    []*models.HearingTestResult(nil),
			err:       assert.AnError,
			wantError: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockResultRepository{}
			repo.On("ListAll", mock.Anything).Return(tt.stored, tt.err)
			h := NewResultsHandler(repo)

			resp, err := h.ListResults(context.Background(), &struct{}{})
			if tt.wantError != 0 {
				requireStatus(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(resp.Body.Results))
			for _, r := range resp.Body.Results {
				ids = append(ids, r.Result.ID)
				assert.Len(t, r.Chart.Series, len(r.Result.Thresholds))
			}
			assert.Equal(t, tt.wantIDs, ids)
			repo.AssertExpectations(t)
		})
	}
}

func TestClearResults(t *testing.T) {
	repo := &MockResultRepository{}
	repo.On("ClearAll", mock.Anything).Return(nil).Once()
	h := NewResultsHandler(repo)

	resp, err := h.ClearResults(context.Background(), &struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "Hearing test history cleared", resp.Body.Message)
	repo.AssertExpectations(t)

	failing := &MockResultRepository{}
	failing.On("ClearAll", mock.Anything).Return(assert.AnError)
	_, err = NewResultsHandler(failing).ClearResults(context.Background(), &struct{}{})
	requireStatus(t, err, 500)
}
