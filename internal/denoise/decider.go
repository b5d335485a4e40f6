package denoise

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/RMahshie/audioclear/pkg/models"
)

// DefaultDecisionTimeout bounds a single call to the decision service
const DefaultDecisionTimeout = 15 * time.Second

// ErrDeciderNotConfigured is returned when no decision service is set up
var ErrDeciderNotConfigured = errors.New("denoising decision service not configured")

// Decider asks whether noise reduction would improve a clip
type Decider interface {
	Decide(ctx context.Context, audioDataURI string) (models.DenoiseDecision, error)
}

type decisionRequest struct {
	AudioDataURI string `json:"audioDataUri"`
}

type decisionResponse struct {
	ShouldDenoise *bool  `json:"shouldDenoise"`
	Reason        string `json:"reason,omitempty"`
}

// HTTPDecider calls a remote JSON decision endpoint
type HTTPDecider struct {
	client *resty.Client
	url    string
}

// NewHTTPDecider creates a client for the decision endpoint at url
func NewHTTPDecider(url, apiKey string, timeout time.Duration) *HTTPDecider {
	if timeout <= 0 {
		timeout = DefaultDecisionTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPDecider{client: client, url: url}
}

// Decide posts the clip and returns the service's verdict
func (d *HTTPDecider) Decide(ctx context.Context, audioDataURI string) (models.DenoiseDecision, error) {
	var out decisionResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(decisionRequest{AudioDataURI: audioDataURI}).
		SetResult(&out).
		Post(d.url)
	if err != nil {
		return models.DenoiseDecision{}, fmt.Errorf("failed to call decision service: %w", err)
	}
	if resp.IsError() {
		return models.DenoiseDecision{}, fmt.Errorf("decision service returned status %d", resp.StatusCode())
	}
	if out.ShouldDenoise == nil {
		return models.DenoiseDecision{}, errors.New("decision service response missing shouldDenoise")
	}

	return models.DenoiseDecision{ShouldDenoise: *out.ShouldDenoise, Reason: out.Reason}, nil
}

// UnavailableDecider always fails, so callers fall back to the original clip
type UnavailableDecider struct{}

func (UnavailableDecider) Decide(context.Context, string) (models.DenoiseDecision, error) {
	return models.DenoiseDecision{}, ErrDeciderNotConfigured
}
