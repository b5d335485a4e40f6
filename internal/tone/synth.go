package tone

import (
	"fmt"
	"math"
	"time"

	"github.com/mjibson/go-dsp/window"
)

const (
	DefaultSampleRate = 44100
	DefaultDuration   = 1200 * time.Millisecond
	DefaultAttack     = 10 * time.Millisecond
	DefaultRelease    = 100 * time.Millisecond

	// ReferenceLevel is the dB HL value rendered at 0 dBFS. The mapping is a
	// plain offset and is not perceptually linear or calibrated per frequency.
	ReferenceLevel = 70
)

// SynthConfig holds tone rendering parameters
type SynthConfig struct {
	SampleRate int
	Duration   time.Duration
	Attack     time.Duration
	Release    time.Duration
}

// DefaultSynthConfig returns the standard tone shape
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		SampleRate: DefaultSampleRate,
		Duration:   DefaultDuration,
		Attack:     DefaultAttack,
		Release:    DefaultRelease,
	}
}

// Synth renders pure tones as float samples in [-1, 1]
type Synth struct {
	cfg     SynthConfig
	attack  []float64
	release []float64
}

// NewSynth creates a synthesizer, precomputing its envelope ramps
func NewSynth(cfg SynthConfig) (*Synth, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", cfg.Duration)
	}
	total := samplesFor(cfg.Duration, cfg.SampleRate)
	attack := samplesFor(cfg.Attack, cfg.SampleRate)
	release := samplesFor(cfg.Release, cfg.SampleRate)
	if attack+release > total {
		return nil, fmt.Errorf("attack %s and release %s exceed duration %s", cfg.Attack, cfg.Release, cfg.Duration)
	}

	return &Synth{
		cfg:     cfg,
		attack:  rampUp(attack),
		release: rampDown(release),
	}, nil
}

// SampleRate returns the output sample rate in Hz
func (s *Synth) SampleRate() int {
	return s.cfg.SampleRate
}

// GainDBFS maps a hearing level to digital gain relative to full scale
func GainDBFS(levelDB int) float64 {
	return float64(levelDB - ReferenceLevel)
}

// Amplitude returns the linear peak amplitude for a hearing level, limited to full scale
func Amplitude(levelDB int) float64 {
	return math.Min(1, math.Pow(10, GainDBFS(levelDB)/20))
}

// Render produces one tone at frequencyHz and levelDB
func (s *Synth) Render(frequencyHz, levelDB int) ([]float64, error) {
	nyquist := s.cfg.SampleRate / 2
	if frequencyHz <= 0 || frequencyHz >= nyquist {
		return nil, fmt.Errorf("frequency %d Hz outside (0, %d)", frequencyHz, nyquist)
	}

	n := samplesFor(s.cfg.Duration, s.cfg.SampleRate)
	amp := Amplitude(levelDB)
	step := 2 * math.Pi * float64(frequencyHz) / float64(s.cfg.SampleRate)

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(step*float64(i))
	}
	for i, g := range s.attack {
		samples[i] *= g
	}
	offset := n - len(s.release)
	for i, g := range s.release {
		samples[offset+i] *= g
	}
	return samples, nil
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// rampUp returns the rising half of a Hann window of length 2n
func rampUp(n int) []float64 {
	if n == 0 {
		return nil
	}
	return window.Hann(2 * n)[:n]
}

// rampDown returns the falling half of a Hann window of length 2n
func rampDown(n int) []float64 {
	if n == 0 {
		return nil
	}
	return window.Hann(2 * n)[n:]
}
