// Package denoise decides whether a recorded voice clip should go through
// noise reduction, and hands back the clip to play as the processed version.
//
// No signal processing is performed here: the processed clip is always the
// original recording, whatever the decision.
package denoise

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/metrics"
	"github.com/RMahshie/audioclear/internal/storage"
	"github.com/RMahshie/audioclear/pkg/models"
)

// FallbackReason is reported when the decision service could not be reached
const FallbackReason = "Noise analysis was unavailable, so the original audio is used."

var (
	// ErrInvalidClipID is returned for clip IDs that are not UUIDs
	ErrInvalidClipID = errors.New("invalid clip ID")

	// ErrStorageDisabled is returned by clip operations when no storage is configured
	ErrStorageDisabled = errors.New("clip storage not configured")
)

// Outcome is the result of processing one clip
type Outcome struct {
	ClipID       string
	OriginalKey  string
	ProcessedKey string
	OriginalURL  string
	ProcessedURL string
	Decision     models.DenoiseDecision
	FellBack     bool
	Processed    bool
}

// Service orchestrates clip storage and the remote decision
type Service struct {
	decider Decider
	clips   storage.ClipStorage
	timeout time.Duration
}

// NewService creates a denoise service. clips may be nil, in which case clips
// are not stored and no playback URLs are returned.
func NewService(decider Decider, clips storage.ClipStorage, timeout time.Duration) *Service {
	if decider == nil {
		decider = UnavailableDecider{}
	}
	if timeout <= 0 {
		timeout = DefaultDecisionTimeout
	}
	return &Service{decider: decider, clips: clips, timeout: timeout}
}

// Process validates and stores the clip, then asks for a decision. Storage and
// decision failures never fail the call: an unstored clip has no key or URLs,
// and a failed decision yields "do not denoise" with FellBack set.
func (s *Service) Process(ctx context.Context, audioDataURI string) (*Outcome, error) {
	clip, err := ParseDataURI(audioDataURI)
	if err != nil {
		return nil, err
	}
	if err := storage.ValidateContentType(clip.MimeType); err != nil {
		return nil, err
	}

	clipID := uuid.New()
	out := &Outcome{ClipID: clipID.String()}
	logger := log.With().Str("clipID", out.ClipID).Str("mimeType", clip.MimeType).Int("bytes", len(clip.Data)).Logger()

	if s.clips != nil {
		key := originalKey(clipID)
		if err := s.clips.UploadClip(ctx, key, clip.MimeType, clip.Data); err != nil {
			logger.Warn().Err(err).Msg("Failed to store voice clip, continuing without playback URLs")
		} else {
			out.OriginalKey = key
			logger.Info().Str("key", key).Msg("Stored voice clip")
		}
	}

	decideCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	decision, err := s.decider.Decide(decideCtx, audioDataURI)
	metrics.DenoiseDecisionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		logger.Warn().Err(err).Msg("Denoising decision failed, passing original audio through")
		decision = models.DenoiseDecision{ShouldDenoise: false, Reason: FallbackReason}
		out.FellBack = true
	}
	out.Decision = decision
	metrics.DenoiseDecisionsTotal.WithLabelValues(outcomeLabel(out)).Inc()

	// The processed clip is the original recording either way.
	out.ProcessedKey = out.OriginalKey
	logger.Info().
		Bool("shouldDenoise", decision.ShouldDenoise).
		Bool("fellBack", out.FellBack).
		Str("reason", decision.Reason).
		Msg("Denoising decision made")

	if out.OriginalKey != "" {
		url, err := s.clips.GenerateDownloadURL(ctx, out.OriginalKey)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to generate clip download URL")
		} else {
			out.OriginalURL = url
			out.ProcessedURL = url
		}
	}

	return out, nil
}

// Discard deletes the stored recording of a clip
func (s *Service) Discard(ctx context.Context, clipID string) error {
	if s.clips == nil {
		return ErrStorageDisabled
	}
	id, err := uuid.Parse(clipID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClipID, clipID)
	}

	key := originalKey(id)
	if err := s.clips.DeleteClip(ctx, key); err != nil {
		return fmt.Errorf("failed to delete clip: %w", err)
	}
	log.Info().Str("clipID", clipID).Str("key", key).Msg("Discarded voice clip")
	return nil
}

// Fetch returns the processed recording of a clip and its content type. The
// processed recording is the stored original.
func (s *Service) Fetch(ctx context.Context, clipID string) ([]byte, string, error) {
	if s.clips == nil {
		return nil, "", ErrStorageDisabled
	}
	id, err := uuid.Parse(clipID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidClipID, clipID)
	}

	data, contentType, err := s.clips.DownloadClip(ctx, originalKey(id))
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

func originalKey(clipID uuid.UUID) string {
	return fmt.Sprintf("clips/%s/original.audio", clipID)
}

func outcomeLabel(out *Outcome) string {
	switch {
	case out.FellBack:
		return metrics.OutcomeFallback
	case out.Decision.ShouldDenoise:
		return metrics.OutcomeDenoise
	default:
		return metrics.OutcomeKeep
	}
}
