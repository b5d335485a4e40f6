package audiometry

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/metrics"
	"github.com/RMahshie/audioclear/internal/tone"
	"github.com/RMahshie/audioclear/pkg/models"
)

// Estimator runs the staircase against a tone device. It is not safe for
// concurrent use; callers deliver events one at a time.
type Estimator struct {
	cfg    Config
	device tone.Device
	state  State
}

// Snapshot is a read-only view of an estimator
type Snapshot struct {
	Run       RunState
	Frequency int
	Level     int
	HeardOnce bool
	// Progress is the share of frequencies already finalized, in percent.
	Progress float64
	Results  []models.ThresholdPoint
}

// NewEstimator creates an Idle estimator
func NewEstimator(cfg Config, device tone.Device) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid staircase config: %w", err)
	}
	if device == nil {
		return nil, fmt.Errorf("tone device is required")
	}
	return &Estimator{cfg: cfg, device: device, state: InitialState()}, nil
}

// Start begins a new run from Idle or Finished, discarding earlier results
func (e *Estimator) Start() { e.Handle(Start()) }

// Respond records whether the last tone was heard
func (e *Estimator) Respond(heard bool) { e.Handle(Respond(heard)) }

// Stop aborts a running test without keeping partial results
func (e *Estimator) Stop() { e.Handle(Stop()) }

// Reset returns a Finished estimator to Idle
func (e *Estimator) Reset() { e.Handle(Reset()) }

// Handle applies one event and carries out its effects
func (e *Estimator) Handle(ev Event) []Effect {
	prev := e.state.Run
	next, effects := e.cfg.Transition(e.state, ev)
	e.state = next

	if len(effects) == 0 && next.Run == prev {
		log.Debug().
			Str("state", string(prev)).
			Int("event", int(ev.Kind)).
			Msg("Ignoring event not valid in current state")
	}

	for _, eff := range effects {
		e.apply(eff)
	}

	if next.Run == StateRunning {
		log.Debug().
			Int("frequency", e.cfg.Frequencies[next.FrequencyIndex]).
			Int("level", next.Level).
			Bool("heard_once", next.HeardOnce).
			Msg("Staircase advanced")
	}
	return effects
}

func (e *Estimator) apply(eff Effect) {
	switch eff.Kind {
	case EffectStopTone:
		e.device.Stop()
	case EffectPlayTone:
		e.device.Play(eff.Frequency, eff.Level)
	case EffectThresholdFound:
		metrics.ThresholdLevel.WithLabelValues(strconv.Itoa(eff.Frequency)).Observe(float64(eff.Level))
		log.Info().Int("frequency", eff.Frequency).Int("threshold", eff.Level).Msg("Threshold found")
	case EffectComplete:
		metrics.TestsCompletedTotal.Inc()
		log.Info().Int("frequencies", len(e.state.Results)).Msg("Hearing test complete")
	}
}

// State returns the current run state
func (e *Estimator) State() RunState {
	return e.state.Run
}

// Results returns the finalized thresholds sorted by ascending frequency
func (e *Estimator) Results() []models.ThresholdPoint {
	return models.SortThresholdPoints(e.state.Results)
}

// Snapshot returns a copy of the estimator's observable state
func (e *Estimator) Snapshot() Snapshot {
	snap := Snapshot{
		Run:     e.state.Run,
		Results: e.Results(),
	}
	switch e.state.Run {
	case StateRunning:
		snap.Frequency = e.cfg.Frequencies[e.state.FrequencyIndex]
		snap.Level = e.state.Level
		snap.HeardOnce = e.state.HeardOnce
		snap.Progress = float64(e.state.FrequencyIndex) / float64(len(e.cfg.Frequencies)) * 100
	case StateFinished:
		snap.Progress = 100
	}
	return snap
}
