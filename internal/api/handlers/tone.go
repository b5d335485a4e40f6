package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/audioclear/internal/tone"
	"github.com/RMahshie/audioclear/pkg/models"
)

// ToneURL is the path a client fetches a rendered tone from
func ToneURL(frequencyHz, levelDB int) string {
	return fmt.Sprintf("/api/tones?frequency=%d&level=%d", frequencyHz, levelDB)
}

// ToneHandler renders test tones for browser playback
type ToneHandler struct {
	synth *tone.Synth
}

// NewToneHandler creates a new tone handler
func NewToneHandler(synth *tone.Synth) *ToneHandler {
	return &ToneHandler{synth: synth}
}

// GetTone renders one tone as a WAV file
func (h *ToneHandler) GetTone(ctx context.Context, req *models.ToneRequest) (*models.ToneResponse, error) {
	samples, err := h.synth.Render(req.Frequency, req.Level)
	if err != nil {
		return nil, huma.Error400BadRequest("Tone cannot be rendered", err)
	}

	var buf bytes.Buffer
	if err := tone.WriteWAV(&buf, samples, h.synth.SampleRate()); err != nil {
		return nil, huma.Error500InternalServerError("Failed to encode tone", err)
	}

	return &models.ToneResponse{
		ContentType:  "audio/wav",
		CacheControl: "public, max-age=86400",
		Body:         buf.Bytes(),
	}, nil
}
