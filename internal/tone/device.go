// Package tone provides the playback side of a hearing test: the Device
// contract the estimator drives, a delayed scheduler, a cue recorder for
// browser clients and a calibrated sine synthesizer.
package tone

import "sync"

// Device plays test tones. Play cuts off any tone still sounding before
// starting the new one; Stop silences immediately. Neither reports failure.
type Device interface {
	Play(frequencyHz, levelDB int)
	Stop()
}

// CueAction tells a remote player what to do
type CueAction string

const (
	CueNone CueAction = "none"
	CuePlay CueAction = "play"
	CueStop CueAction = "stop"
)

// Cue is the most recent playback instruction issued to a CueDevice
type Cue struct {
	Seq       uint64    `json:"seq" doc:"Monotonic cue sequence number"`
	Action    CueAction `json:"action" enum:"none,play,stop" doc:"Playback action"`
	Frequency int       `json:"frequency,omitempty" doc:"Tone frequency in Hz"`
	Level     int       `json:"level" doc:"Tone level in dB HL"`
}

// CueDevice records playback signals instead of producing sound, so a remote
// client can poll for what it should play next.
type CueDevice struct {
	mu   sync.Mutex
	last Cue
}

// NewCueDevice creates a cue device with no cue issued yet
func NewCueDevice() *CueDevice {
	return &CueDevice{last: Cue{Action: CueNone}}
}

func (d *CueDevice) Play(frequencyHz, levelDB int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = Cue{Seq: d.last.Seq + 1, Action: CuePlay, Frequency: frequencyHz, Level: levelDB}
}

func (d *CueDevice) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = Cue{Seq: d.last.Seq + 1, Action: CueStop}
}

// Last returns the latest cue
func (d *CueDevice) Last() Cue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
