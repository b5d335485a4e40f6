package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/denoise"
	"github.com/RMahshie/audioclear/internal/storage"
	"github.com/RMahshie/audioclear/pkg/models"
)

// ClipProcessor decides how a recorded clip should be handled
type ClipProcessor interface {
	Process(ctx context.Context, audioDataURI string) (*denoise.Outcome, error)
	Fetch(ctx context.Context, clipID string) ([]byte, string, error)
	Discard(ctx context.Context, clipID string) error
}

// DenoiseHandler handles voice clip denoising requests
type DenoiseHandler struct {
	processor ClipProcessor
}

// NewDenoiseHandler creates a new denoise handler
func NewDenoiseHandler(processor ClipProcessor) *DenoiseHandler {
	return &DenoiseHandler{processor: processor}
}

// Denoise asks whether the clip would benefit from noise reduction
func (h *DenoiseHandler) Denoise(ctx context.Context, req *models.DenoiseRequest) (*models.DenoiseResponse, error) {
	out, err := h.processor.Process(ctx, req.Body.AudioDataURI)
	switch {
	case errors.Is(err, denoise.ErrInvalidDataURI):
		return nil, huma.Error400BadRequest("Recording could not be read. Please try again.", err)
	case errors.Is(err, storage.ErrInvalidContentType):
		return nil, huma.Error400BadRequest("Recording format not supported. Please try again.", err)
	case err != nil:
		log.Error().Err(err).Msg("Voice clip processing failed")
		return nil, huma.Error500InternalServerError("Failed to process recording", err)
	}

	return &models.DenoiseResponse{
		Body: models.DenoiseResult{
			ClipID:       out.ClipID,
			Decision:     out.Decision,
			FellBack:     out.FellBack,
			Processed:    out.Processed,
			OriginalURL:  out.OriginalURL,
			ProcessedURL: out.ProcessedURL,
		},
	}, nil
}

// DiscardClip deletes a stored recording
func (h *DenoiseHandler) DiscardClip(ctx context.Context, req *models.ClipRequest) (*struct{}, error) {
	err := h.processor.Discard(ctx, req.ID)
	switch {
	case errors.Is(err, denoise.ErrInvalidClipID):
		return nil, huma.Error400BadRequest("Invalid clip ID", err)
	case errors.Is(err, denoise.ErrStorageDisabled):
		return nil, huma.Error503ServiceUnavailable("Clip storage is not configured", err)
	case err != nil:
		log.Error().Err(err).Str("clipID", req.ID).Msg("Failed to discard voice clip")
		return nil, huma.Error500InternalServerError("Failed to discard recording", err)
	}
	return &struct{}{}, nil
}

// GetClipAudio streams the processed recording of a clip
func (h *DenoiseHandler) GetClipAudio(ctx context.Context, req *models.ClipRequest) (*models.ClipAudioResponse, error) {
	data, contentType, err := h.processor.Fetch(ctx, req.ID)
	switch {
	case errors.Is(err, denoise.ErrInvalidClipID):
		return nil, huma.Error400BadRequest("Invalid clip ID", err)
	case errors.Is(err, storage.ErrClipNotFound):
		return nil, huma.Error404NotFound("Recording not found", err)
	case errors.Is(err, denoise.ErrStorageDisabled):
		return nil, huma.Error503ServiceUnavailable("Clip storage is not configured", err)
	case err != nil:
		log.Error().Err(err).Str("clipID", req.ID).Msg("Failed to load voice clip")
		return nil, huma.Error500InternalServerError("Failed to load recording", err)
	}

	return &models.ClipAudioResponse{
		ContentType:  contentType,
		CacheControl: "private, max-age=3600",
		Body:         data,
	}, nil
}
