package tone

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPresentationDelay separates a UI transition from the tone that follows it.
const DefaultPresentationDelay = 500 * time.Millisecond

// Scheduler delays each Play by a fixed presentation delay. A newer Play
// replaces a pending one, and Stop cancels anything pending, so a tone is
// never started after Stop returns.
type Scheduler struct {
	device Device
	delay  time.Duration
	clock  clockwork.Clock

	mu         sync.Mutex
	pending    clockwork.Timer
	generation uint64
}

// NewScheduler wraps device with a fixed presentation delay
func NewScheduler(device Device, delay time.Duration, clock clockwork.Clock) *Scheduler {
	if delay <= 0 {
		delay = DefaultPresentationDelay
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{device: device, delay: delay, clock: clock}
}

// Delay returns the presentation delay applied to every Play
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

func (s *Scheduler) Play(frequencyHz, levelDB int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	gen := s.generation
	s.pending = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.pending = nil
		s.device.Play(frequencyHz, levelDB)
	})
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.device.Stop()
}

// Pending reports whether a Play is waiting for its delay to elapse
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Scheduler) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.generation++
}
