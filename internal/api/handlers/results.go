package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/audiogram"
	"github.com/RMahshie/audioclear/internal/repository"
	"github.com/RMahshie/audioclear/pkg/models"
)

// ResultsHandler handles saved result history requests
type ResultsHandler struct {
	repo repository.ResultRepository
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(repo repository.ResultRepository) *ResultsHandler {
	return &ResultsHandler{repo: repo}
}

// ListResults returns every saved result with its chart, newest first
func (h *ResultsHandler) ListResults(ctx context.Context, _ *struct{}) (*models.ListResultsResponse, error) {
	results, err := h.repo.ListAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load results", err)
	}
	models.SortResultsNewestFirst(results)

	resp := &models.ListResultsResponse{}
	resp.Body.Results = make([]models.SavedAudiogram, 0, len(results))
	for _, r := range results {
		resp.Body.Results = append(resp.Body.Results, models.SavedAudiogram{
			Result: *r,
			Chart:  audiogram.Build(r.Thresholds),
		})
	}
	return resp, nil
}

// ClearResults deletes the whole result history
func (h *ResultsHandler) ClearResults(ctx context.Context, _ *struct{}) (*models.ClearResultsResponse, error) {
	if err := h.repo.ClearAll(ctx); err != nil {
		return nil, huma.Error500InternalServerError("Failed to clear results", err)
	}
	log.Info().Msg("Hearing test history cleared")

	resp := &models.ClearResultsResponse{}
	resp.Body.Message = "Hearing test history cleared"
	return resp, nil
}
