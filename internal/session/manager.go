// Package session keeps the hearing tests that browser clients are driving.
//
// Each session owns one estimator whose tone device records cues for the
// client instead of producing sound. Events for a session are applied one at
// a time.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/audiometry"
	"github.com/RMahshie/audioclear/internal/metrics"
	"github.com/RMahshie/audioclear/internal/tone"
)

// DefaultIdleTimeout is how long an untouched session is kept
const DefaultIdleTimeout = 30 * time.Minute

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("hearing test session not found")

// Options configures a Manager
type Options struct {
	PresentationDelay time.Duration
	IdleTimeout       time.Duration
	Clock             clockwork.Clock
}

// Manager owns all live sessions
type Manager struct {
	cfg   audiometry.Config
	opts  Options
	clock clockwork.Clock

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// Session is one client's hearing test
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	estimator  *audiometry.Estimator
	scheduler  *tone.Scheduler
	cues       *tone.CueDevice
	lastActive time.Time
	expired    bool
	clock      clockwork.Clock
}

// View is what a client sees after an operation
type View struct {
	ID                uuid.UUID
	Snapshot          audiometry.Snapshot
	Cue               tone.Cue
	PresentationDelay time.Duration
	Expired           bool
}

// NewManager creates a session manager for the given staircase config
func NewManager(cfg audiometry.Config, opts Options) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PresentationDelay <= 0 {
		opts.PresentationDelay = tone.DefaultPresentationDelay
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		cfg:      cfg,
		opts:     opts,
		clock:    opts.Clock,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// Create registers a new Idle session
func (m *Manager) Create() (*Session, error) {
	cues := tone.NewCueDevice()
	scheduler := tone.NewScheduler(cues, m.opts.PresentationDelay, m.clock)
	estimator, err := audiometry.NewEstimator(m.cfg, scheduler)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.New(),
		estimator:  estimator,
		scheduler:  scheduler,
		cues:       cues,
		lastActive: m.clock.Now(),
		clock:      m.clock,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()
	metrics.SessionsActive.Set(float64(count))

	log.Info().Str("sessionID", s.ID.String()).Int("active_sessions", count).Msg("Hearing test session created")
	return s, nil
}

// Get looks up a session
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete stops and forgets a session
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()
	metrics.SessionsActive.Set(float64(count))

	if !ok {
		return ErrNotFound
	}
	s.expire()
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle past the timeout and returns how many were removed.
// Running estimators are stopped first so no tone stays scheduled.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()
	metrics.SessionsActive.Set(float64(count))
	metrics.SessionsExpiredTotal.Add(float64(len(expired)))

	for _, s := range expired {
		s.expire()
		log.Info().Str("sessionID", s.ID.String()).Msg("Expired idle hearing test session")
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Int("active_sessions", m.Len()).Msg("Session sweep finished")
			}
		}
	}
}

// Handle applies one event to the session's estimator. Events for a session
// that was deleted or swept are ignored.
func (s *Session) Handle(ev audiometry.Event) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return s.viewLocked()
	}
	s.estimator.Handle(ev)
	s.lastActive = s.clock.Now()
	return s.viewLocked()
}

// View returns the session state without changing it
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		ID:                s.ID,
		Snapshot:          s.estimator.Snapshot(),
		Cue:               s.cues.Last(),
		PresentationDelay: s.scheduler.Delay(),
		Expired:           s.expired,
	}
}

// expire stops the estimator and rejects further events
func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return
	}
	s.estimator.Handle(audiometry.Stop())
	s.expired = true
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
