package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jonboulle/clockwork"

	"github.com/RMahshie/audioclear/internal/api/handlers"
	"github.com/RMahshie/audioclear/internal/repository"
	"github.com/RMahshie/audioclear/internal/tone"
)

// Dependencies groups what the API handlers need
type Dependencies struct {
	Sessions  handlers.SessionStore
	Results   repository.ResultRepository
	Synth     *tone.Synth
	Processor handlers.ClipProcessor
	Clock     clockwork.Clock
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, deps Dependencies) {
	// Initialize handlers
	hearingHandler := handlers.NewHearingTestHandler(deps.Sessions, deps.Results, deps.Clock)
	resultsHandler := handlers.NewResultsHandler(deps.Results)
	toneHandler := handlers.NewToneHandler(deps.Synth)
	denoiseHandler := handlers.NewDenoiseHandler(deps.Processor)

	// Register hearing test routes
	huma.Register(api, huma.Operation{
		OperationID:   "createHearingTest",
		Method:        http.MethodPost,
		Path:          "/api/hearing-tests",
		Summary:       "Start a hearing test",
		Description:   "Creates a hearing test session and starts the first frequency",
		Tags:          []string{"Hearing Test"},
		DefaultStatus: http.StatusCreated,
	}, hearingHandler.CreateHearingTest)

	huma.Register(api, huma.Operation{
		OperationID: "getHearingTest",
		Method:      http.MethodGet,
		Path:        "/api/hearing-tests/{id}",
		Summary:     "Get hearing test state",
		Description: "Returns the run state, progress and latest playback cue",
		Tags:        []string{"Hearing Test"},
	}, hearingHandler.GetHearingTest)

	huma.Register(api, huma.Operation{
		OperationID: "respondHearingTest",
		Method:      http.MethodPost,
		Path:        "/api/hearing-tests/{id}/responses",
		Summary:     "Answer the last tone",
		Description: "Records whether the last tone was heard; ignored unless the test is running",
		Tags:        []string{"Hearing Test"},
	}, hearingHandler.Respond)

	huma.Register(api, huma.Operation{
		OperationID: "startHearingTest",
		Method:      http.MethodPost,
		Path:        "/api/hearing-tests/{id}/start",
		Summary:     "Start or restart a hearing test",
		Description: "Starts a new run from an idle or finished session, discarding earlier thresholds",
		Tags:        []string{"Hearing Test"},
	}, hearingHandler.StartHearingTest)

	huma.Register(api, huma.Operation{
		OperationID: "stopHearingTest",
		Method:      http.MethodPost,
		Path:        "/api/hearing-tests/{id}/stop",
		Summary:     "Stop a hearing test",
		Description: "Aborts a running test and silences playback; partial thresholds are discarded",
		Tags:        []string{"Hearing Test"},
	}, hearingHandler.StopHearingTest)

	huma.Register(api, huma.Operation{
		OperationID: "resetHearingTest",
		Method:      http.MethodPost,
		Path:        "/api/hearing-tests/{id}/reset",
		Summary:     "Reset a finished hearing test",
		Description: "Returns a finished session to idle and clears its thresholds",
		Tags:        []string{"Hearing Test"},
	}, hearingHandler.ResetHearingTest)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteHearingTest",
		Method:        http.MethodDelete,
		Path:          "/api/hearing-tests/{id}",
		Summary:       "Discard a hearing test",
		Description:   "Stops and removes a hearing test session",
		Tags:          []string{"Hearing Test"},
		DefaultStatus: http.StatusNoContent,
	}, hearingHandler.DeleteHearingTest)

	huma.Register(api, huma.Operation{
		OperationID:   "saveHearingTestResult",
		Method:        http.MethodPost,
		Path:          "/api/hearing-tests/{id}/results",
		Summary:       "Save hearing test results",
		Description:   "Stores the thresholds of a finished test in the history",
		Tags:          []string{"Hearing Test"},
		DefaultStatus: http.StatusCreated,
	}, hearingHandler.SaveResult)

	// Register result history routes
	huma.Register(api, huma.Operation{
		OperationID: "listResults",
		Method:      http.MethodGet,
		Path:        "/api/results",
		Summary:     "List saved results",
		Description: "Returns saved audiograms, newest first",
		Tags:        []string{"Results"},
	}, resultsHandler.ListResults)

	huma.Register(api, huma.Operation{
		OperationID: "clearResults",
		Method:      http.MethodDelete,
		Path:        "/api/results",
		Summary:     "Clear saved results",
		Description: "Deletes the entire hearing test history",
		Tags:        []string{"Results"},
	}, resultsHandler.ClearResults)

	// Register tone rendering route
	huma.Register(api, huma.Operation{
		OperationID: "getTone",
		Method:      http.MethodGet,
		Path:        "/api/tones",
		Summary:     "Render a test tone",
		Description: "Returns a pure tone as 16-bit PCM WAV",
		Tags:        []string{"Tones"},
	}, toneHandler.GetTone)

	// Register voice denoising route
	huma.Register(api, huma.Operation{
		OperationID:  "denoiseClip",
		Method:       http.MethodPost,
		Path:         "/api/denoise",
		Summary:      "Decide on voice clip denoising",
		Description:  "Stores a recorded clip and asks whether noise reduction would help",
		Tags:         []string{"Denoise"},
		MaxBodyBytes: 30 * 1024 * 1024,
	}, denoiseHandler.Denoise)

	huma.Register(api, huma.Operation{
		OperationID: "getClipAudio",
		Method:      http.MethodGet,
		Path:        "/api/denoise/clips/{id}/audio",
		Summary:     "Play back a processed clip",
		Description: "Returns the processed recording, which is the stored original",
		Tags:        []string{"Denoise"},
	}, denoiseHandler.GetClipAudio)

	huma.Register(api, huma.Operation{
		OperationID:   "discardClip",
		Method:        http.MethodDelete,
		Path:          "/api/denoise/clips/{id}",
		Summary:       "Discard a voice clip",
		Description:   "Deletes a stored recording",
		Tags:          []string{"Denoise"},
		DefaultStatus: http.StatusNoContent,
	}, denoiseHandler.DiscardClip)
}
