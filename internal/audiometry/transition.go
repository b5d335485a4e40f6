package audiometry

import (
	"github.com/RMahshie/audioclear/pkg/models"
)

// RunState is the lifecycle phase of a test run
type RunState string

const (
	StateIdle     RunState = "idle"
	StateRunning  RunState = "running"
	StateFinished RunState = "finished"
)

// State is the complete, framework-agnostic state of one test run.
// FrequencyIndex, Level and HeardOnce are only meaningful while Running.
type State struct {
	Run            RunState
	FrequencyIndex int
	Level          int
	HeardOnce      bool
	Results        []models.ThresholdPoint
}

// InitialState returns an Idle state with no results
func InitialState() State {
	return State{Run: StateIdle}
}

// EventKind identifies an input to the staircase
type EventKind int

const (
	EventStart EventKind = iota
	EventRespond
	EventStop
	EventReset
)

// Event is a single input. Heard is only read for EventRespond.
type Event struct {
	Kind  EventKind
	Heard bool
}

// Start, Respond, Stop and Reset build the corresponding events
func Start() Event { return Event{Kind: EventStart} }
func Respond(heard bool) Event { return Event{Kind: EventRespond, Heard: heard} }
func Stop() Event { return Event{Kind: EventStop} }
func Reset() Event { return Event{Kind: EventReset} }

// EffectKind identifies a side effect requested by a transition
type EffectKind int

const (
	// EffectStopTone silences any sounding or pending tone.
	EffectStopTone EffectKind = iota
	// EffectPlayTone presents Frequency at Level.
	EffectPlayTone
	// EffectThresholdFound reports a finalized point.
	EffectThresholdFound
	// EffectComplete reports that every frequency has a threshold.
	EffectComplete
)

// Effect is a side-effect request emitted by Transition
type Effect struct {
	Kind      EffectKind
	Frequency int
	Level     int
}

// Transition applies event to state and returns the next state with the
// effects the caller must carry out, in order. Events that are not valid in
// the current run state return the state unchanged and no effects.
func (c Config) Transition(s State, e Event) (State, []Effect) {
	switch e.Kind {
	case EventStart:
		if s.Run == StateRunning {
			return s, nil
		}
		next := State{
			Run:            StateRunning,
			FrequencyIndex: 0,
			Level:          c.StartingLevel,
		}
		return next, []Effect{c.play(next)}

	case EventRespond:
		if s.Run != StateRunning {
			return s, nil
		}
		return c.respond(s, e.Heard)

	case EventStop:
		if s.Run != StateRunning {
			return s, nil
		}
		return InitialState(), []Effect{{Kind: EffectStopTone}}

	case EventReset:
		if s.Run != StateFinished {
			return s, nil
		}
		return InitialState(), nil
	}
	return s, nil
}

func (c Config) respond(s State, heard bool) (State, []Effect) {
	effects := []Effect{{Kind: EffectStopTone}}

	switch {
	case heard && s.HeardOnce:
		// Confirmed at the current level.
		return c.finalize(s, s.Level, effects)

	case heard:
		s.HeardOnce = true
		s.Level -= c.StepDown
		return s, append(effects, c.play(s))

	case s.HeardOnce:
		// Missed after descending; the threshold is the last audible level.
		return c.finalize(s, s.Level+c.StepDown, effects)

	default:
		next := s.Level + c.StepUp
		if next > c.MaxLevel {
			return c.finalize(s, c.MaxLevel, effects)
		}
		s.Level = next
		return s, append(effects, c.play(s))
	}
}

func (c Config) finalize(s State, level int, effects []Effect) (State, []Effect) {
	point := models.ThresholdPoint{
		Frequency: c.Frequencies[s.FrequencyIndex],
		Level:     c.clamp(level),
	}
	s.Results = models.SortThresholdPoints(append(s.Results[:len(s.Results):len(s.Results)], point))
	effects = append(effects, Effect{Kind: EffectThresholdFound, Frequency: point.Frequency, Level: point.Level})

	if s.FrequencyIndex < len(c.Frequencies)-1 {
		s.FrequencyIndex++
		s.Level = c.StartingLevel
		s.HeardOnce = false
		return s, append(effects, c.play(s))
	}

	s.Run = StateFinished
	s.HeardOnce = false
	return s, append(effects, Effect{Kind: EffectComplete})
}

func (c Config) play(s State) Effect {
	return Effect{Kind: EffectPlayTone, Frequency: c.Frequencies[s.FrequencyIndex], Level: s.Level}
}
