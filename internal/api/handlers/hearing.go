package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/audiogram"
	"github.com/RMahshie/audioclear/internal/audiometry"
	"github.com/RMahshie/audioclear/internal/repository"
	"github.com/RMahshie/audioclear/internal/session"
	"github.com/RMahshie/audioclear/internal/tone"
	"github.com/RMahshie/audioclear/pkg/models"
)

// SessionStore is the subset of the session manager the handlers use
type SessionStore interface {
	Create() (*session.Session, error)
	Get(id uuid.UUID) (*session.Session, error)
	Delete(id uuid.UUID) error
}

// HearingTestHandler handles hearing test session requests
type HearingTestHandler struct {
	sessions SessionStore
	repo     repository.ResultRepository
	clock    clockwork.Clock
}

// NewHearingTestHandler creates a new hearing test handler
func NewHearingTestHandler(sessions SessionStore, repo repository.ResultRepository, clock clockwork.Clock) *HearingTestHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HearingTestHandler{sessions: sessions, repo: repo, clock: clock}
}

// CreateHearingTest creates a session and starts the test
func (h *HearingTestHandler) CreateHearingTest(ctx context.Context, _ *struct{}) (*models.HearingTestResponse, error) {
	s, err := h.sessions.Create()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to create hearing test", err)
	}
	return toResponse(s.Handle(audiometry.Start())), nil
}

// GetHearingTest returns the current state and cue of a session
func (h *HearingTestHandler) GetHearingTest(ctx context.Context, req *models.HearingTestRequest) (*models.HearingTestResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(s.View()), nil
}

// Respond records a heard / not heard answer
func (h *HearingTestHandler) Respond(ctx context.Context, req *models.RespondRequest) (*models.HearingTestResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(s.Handle(audiometry.Respond(req.Body.Heard))), nil
}

// StartHearingTest starts a new run in an Idle or Finished session
func (h *HearingTestHandler) StartHearingTest(ctx context.Context, req *models.HearingTestRequest) (*models.HearingTestResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(s.Handle(audiometry.Start())), nil
}

// StopHearingTest aborts a running test
func (h *HearingTestHandler) StopHearingTest(ctx context.Context, req *models.HearingTestRequest) (*models.HearingTestResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(s.Handle(audiometry.Stop())), nil
}

// ResetHearingTest returns a finished session to Idle
func (h *HearingTestHandler) ResetHearingTest(ctx context.Context, req *models.HearingTestRequest) (*models.HearingTestResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(s.Handle(audiometry.Reset())), nil
}

// DeleteHearingTest stops and discards a session
func (h *HearingTestHandler) DeleteHearingTest(ctx context.Context, req *models.HearingTestRequest) (*struct{}, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid hearing test ID", err)
	}
	if err := h.sessions.Delete(id); err != nil {
		return nil, huma.Error404NotFound("Hearing test not found", err)
	}
	return &struct{}{}, nil
}

// SaveResult persists the thresholds of a finished session
func (h *HearingTestHandler) SaveResult(ctx context.Context, req *models.HearingTestRequest) (*models.SaveResultResponse, error) {
	s, err := h.lookup(req.ID)
	if err != nil {
		return nil, err
	}

	snap := s.View().Snapshot
	if snap.Run != audiometry.StateFinished {
		return nil, huma.Error409Conflict("Hearing test not yet finished",
			fmt.Errorf("hearing test state is %s", snap.Run))
	}

	result := &models.HearingTestResult{
		ID:         uuid.New().String(),
		CreatedAt:  h.clock.Now().UTC(),
		Thresholds: snap.Results,
	}
	if err := h.repo.Append(ctx, result); err != nil {
		log.Error().Err(err).Str("sessionID", req.ID).Msg("Failed to save hearing test result")
		return nil, huma.Error500InternalServerError("Failed to save results", err)
	}
	log.Info().Str("sessionID", req.ID).Str("resultID", result.ID).Msg("Hearing test result saved")

	return &models.SaveResultResponse{
		Body: models.SavedAudiogram{Result: *result, Chart: audiogram.Build(result.Thresholds)},
	}, nil
}

func (h *HearingTestHandler) lookup(rawID string) (*session.Session, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid hearing test ID", err)
	}
	s, err := h.sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, huma.Error404NotFound("Hearing test not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load hearing test", err)
	}
	return s, nil
}

func toResponse(v session.View) *models.HearingTestResponse {
	results := v.Snapshot.Results
	if results == nil {
		results = []models.ThresholdPoint{}
	}

	cue := models.ToneCue{
		Seq:       v.Cue.Seq,
		Action:    string(v.Cue.Action),
		Frequency: v.Cue.Frequency,
		Level:     v.Cue.Level,
	}
	if v.Cue.Action == tone.CuePlay {
		cue.ToneURL = ToneURL(v.Cue.Frequency, v.Cue.Level)
	}

	return &models.HearingTestResponse{
		Body: models.HearingTestState{
			ID:                  v.ID.String(),
			State:               string(v.Snapshot.Run),
			Frequency:           v.Snapshot.Frequency,
			Level:               v.Snapshot.Level,
			HeardOnce:           v.Snapshot.HeardOnce,
			Progress:            v.Snapshot.Progress,
			PresentationDelayMS: v.PresentationDelay.Milliseconds(),
			Cue:                 cue,
			Results:             results,
		},
	}
}
