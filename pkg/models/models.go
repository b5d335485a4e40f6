package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ToneCue tells the browser which tone to present next
type ToneCue struct {
	Seq       uint64 `json:"seq" doc:"Monotonic cue sequence number; act only on unseen values"`
	Action    string `json:"action" enum:"none,play,stop" doc:"Playback action"`
	Frequency int    `json:"frequency,omitempty" doc:"Tone frequency in Hz"`
	Level     int    `json:"level" doc:"Tone level in dB HL"`
	ToneURL   string `json:"tone_url,omitempty" doc:"URL of the rendered tone for play cues"`
}

// HearingTestState is the observable state of a hearing test session
type HearingTestState struct {
	ID                  string           `json:"id" doc:"Hearing test session identifier"`
	State               string           `json:"state" enum:"idle,running,finished" doc:"Run state"`
	Frequency           int              `json:"frequency,omitempty" doc:"Frequency under test in Hz while running"`
	Level               int              `json:"level" doc:"Current presentation level in dB HL while running"`
	HeardOnce           bool             `json:"heard_once" doc:"Whether the staircase is confirming a first positive response"`
	Progress            float64          `json:"progress" minimum:"0" maximum:"100" doc:"Share of frequencies finalized, in percent"`
	PresentationDelayMS int64            `json:"presentation_delay_ms" doc:"Delay before a play cue becomes current"`
	Cue                 ToneCue          `json:"cue" doc:"Latest playback cue"`
	Results             []ThresholdPoint `json:"results" doc:"Finalized thresholds sorted by frequency"`
}

// HearingTestResponse wraps a session state
type HearingTestResponse struct {
	Body HearingTestState
}

// HearingTestRequest addresses an existing session
type HearingTestRequest struct {
	ID string `path:"id" doc:"Hearing test session ID"`
}

// RespondRequest records a heard / not heard answer
type RespondRequest struct {
	ID   string `path:"id" doc:"Hearing test session ID"`
	Body struct {
		Heard bool `json:"heard" required:"true" doc:"Whether the last tone was heard"`
	}
}

// SavedAudiogram is a stored result together with its chart payload
type SavedAudiogram struct {
	Result HearingTestResult `json:"result" doc:"Stored hearing test result"`
	Chart  AudiogramChart    `json:"chart" doc:"Chart payload for the result"`
}

// SaveResultResponse represents the response from saving a finished run
type SaveResultResponse struct {
	Body SavedAudiogram
}

// ListResultsResponse lists saved results, newest first
type ListResultsResponse struct {
	Body struct {
		Results []SavedAudiogram `json:"results" doc:"Saved results ordered by creation time, newest first"`
	}
}

// ClearResultsResponse confirms the history was cleared
type ClearResultsResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// ToneRequest selects a tone to render
type ToneRequest struct {
	Frequency int `query:"frequency" minimum:"20" maximum:"20000" required:"true" doc:"Tone frequency in Hz"`
	Level     int `query:"level" minimum:"-10" maximum:"80" doc:"Tone level in dB HL"`
}

// ToneResponse carries a rendered WAV clip
type ToneResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// DenoiseDecision is the remote verdict on whether noise reduction would help
type DenoiseDecision struct {
	ShouldDenoise bool   `json:"shouldDenoise" doc:"Whether noise reduction is likely to improve the clip"`
	Reason        string `json:"reason,omitempty" doc:"Reason given for the decision"`
}

// DenoiseRequest submits a recorded voice clip
type DenoiseRequest struct {
	Body struct {
		AudioDataURI string `json:"audio_data_uri" required:"true" minLength:"16" doc:"Clip as data:<mimetype>;base64,<payload>"`
	}
}

// ClipRequest addresses a stored voice clip
type ClipRequest struct {
	ID string `path:"id" doc:"Clip ID"`
}

// ClipAudioResponse carries a stored recording
type ClipAudioResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// DenoiseResult describes the outcome for one clip
type DenoiseResult struct {
	ClipID       string          `json:"clip_id" doc:"Stored clip identifier"`
	Decision     DenoiseDecision `json:"decision" doc:"Decision used for this clip"`
	FellBack     bool            `json:"fell_back" doc:"Whether the decision service failed and the default was used"`
	Processed    bool            `json:"processed" doc:"Whether signal processing was applied; the processed clip is currently the original"`
	OriginalURL  string          `json:"original_url,omitempty" doc:"Download URL of the original clip"`
	ProcessedURL string          `json:"processed_url,omitempty" doc:"Download URL of the processed clip"`
}

// DenoiseResponse wraps a denoise result
type DenoiseResponse struct {
	Body DenoiseResult
}
