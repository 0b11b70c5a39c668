// Package status provides a thread-safe status tracker for the eggy daemon.
// The frame loop writes to it; HTTP handlers and MQTT system events read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/pet"
)

// NetworkInfo contains network state.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PetName         string
	Tone            string
	PollMs          int64
	DebounceMs      int64
	HeartbeatMs     int64
	StateIntervalMs int64
	Broker          string
	HTTPAddr        string
}

// PetView is what the frame loop shows for one frame.
type PetView struct {
	Pet        pet.Snapshot
	Face       pet.Face
	Glyph      string
	Stats      string
	StatusLine string
	MenuOpen   bool
	MenuItem   string // selected entry while the menu is open
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	View          PetView
	Held          input.Held
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config

	// Version increases whenever any field other than Now changes.
	Version uint64
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Ready reports whether the frame loop has published at least one view.
func (s Snapshot) Ready() bool {
	return s.View.Pet.Name != ""
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdatePet records the current pet view. Called by the frame loop on every
// frame; unchanged views do not bump the version.
func (t *Tracker) UpdatePet(v PetView) {
	t.mu.Lock()
	if t.snap.View != v {
		t.snap.View = v
		t.snap.Version++
	}
	t.mu.Unlock()
}

// SetButtons records the debounced held state of the buttons.
func (t *Tracker) SetButtons(h input.Held) {
	t.mu.Lock()
	if t.snap.Held != h {
		t.snap.Held = h
		t.snap.Version++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	if t.snap.MQTTConnected != connected {
		t.snap.MQTTConnected = connected
		t.snap.Version++
	}
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.snap.Version++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.Network != nil {
		n := *s.Network
		s.Network = &n
	}
	s.Now = time.Now()
	return s
}

// Version returns the current version without copying the snapshot.
func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Version
}
