package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/audioclear/internal/audiometry"
	"github.com/RMahshie/audioclear/internal/denoise"
	"github.com/RMahshie/audioclear/internal/session"
	"github.com/RMahshie/audioclear/internal/tone"
	"github.com/RMahshie/audioclear/pkg/models"
)

// memoryResults is an in-memory result store for route tests
type memoryResults struct {
	mu      sync.Mutex
	results []*models.HearingTestResult
}

func (m *memoryResults) Append(_ context.Context, r *models.HearingTestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memoryResults) ListAll(context.Context) ([]*models.HearingTestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.HearingTestResult, len(m.results))
	copy(out, m.results)
	return out, nil
}

func (m *memoryResults) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = nil
	return nil
}

func newTestAPI(t *testing.T) (humatest.TestAPI, *memoryResults) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	sessions, err := session.NewManager(audiometry.DefaultConfig(), session.Options{Clock: clock})
	require.NoError(t, err)
	synth, err := tone.NewSynth(tone.DefaultSynthConfig())
	require.NoError(t, err)

	results := &memoryResults{}
	_, api := humatest.New(t)
	RegisterRoutes(api, Dependencies{
		Sessions:  sessions,
		Results:   results,
		Synth:     synth,
		Processor: denoise.NewService(denoise.UnavailableDecider{}, nil, time.Second),
		Clock:     clock,
	})
	return api, results
}

func decodeState(t *testing.T, body []byte) models.HearingTestState {
	t.Helper()
	var state models.HearingTestState
	require.NoError(t, json.Unmarshal(body, &state))
	return state
}

func TestHearingTestLifecycle(t *testing.T) {
	api, results := newTestAPI(t)

	resp := api.Post("/api/hearing-tests")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	state := decodeState(t, resp.Body.Bytes())
	assert.Equal(t, "running", state.State)
	id := state.ID

	// Saving before the last frequency is finalized is rejected.
	resp = api.Post("/api/hearing-tests/" + id + "/results")
	assert.Equal(t, http.StatusConflict, resp.Code)

	for range audiometry.TestFrequencies {
		resp = api.Post("/api/hearing-tests/"+id+"/responses", map[string]any{"heard": false})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		resp = api.Post("/api/hearing-tests/"+id+"/responses", map[string]any{"heard": true})
		require.Equal(t, http.StatusOK, resp.Code)
		resp = api.Post("/api/hearing-tests/"+id+"/responses", map[string]any{"heard": true})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	state = decodeState(t, resp.Body.Bytes())
	assert.Equal(t, "finished", state.State)
	assert.Equal(t, float64(100), state.Progress)
	require.Len(t, state.Results, len(audiometry.TestFrequencies))
	for i, p := range state.Results {
		assert.Equal(t, audiometry.TestFrequencies[i], p.Frequency)
		assert.Equal(t, 5, p.Level)
	}

	resp = api.Post("/api/hearing-tests/" + id + "/results")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Len(t, results.results, 1)

	resp = api.Get("/api/results")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Results []models.SavedAudiogram `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Results, 1)
	assert.Equal(t, state.Results, list.Results[0].Result.Thresholds)

	resp = api.Delete("/api/results")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, results.results)

	resp = api.Delete("/api/hearing-tests/" + id)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = api.Get("/api/hearing-tests/" + id)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRespond_RequiresHeardField(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Post("/api/hearing-tests")
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeState(t, resp.Body.Bytes()).ID

	resp = api.Post("/api/hearing-tests/"+id+"/responses", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetTone_Route(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/api/tones?frequency=1000&level=20")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "audio/wav", resp.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF", resp.Body.String()[:4])

	resp = api.Get("/api/tones?frequency=1000&level=95")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestDenoise_Route(t *testing.T) {
	api, _ := newTestAPI(t)

	uri := denoise.EncodeDataURI("audio/webm", []byte("voice clip bytes"))
	resp := api.Post("/api/denoise", map[string]any{"audio_data_uri": uri})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result models.DenoiseResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.FellBack)
	assert.False(t, result.Decision.ShouldDenoise)
	assert.Equal(t, denoise.FallbackReason, result.Decision.Reason)

	resp = api.Post("/api/denoise", map[string]any{"audio_data_uri": "not a data uri at all"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
