package mqtt

import (
	"sync"
	"time"

	"github.com/sweeney/eggy/internal/pet"
)

// StateMsg is a recorded PublishState call.
type StateMsg struct {
	At       time.Time
	Snapshot pet.Snapshot
}

// FakePublisher records published messages for test assertions.
// Safe for concurrent use; read fields after the publishers are done.
type FakePublisher struct {
	mu sync.Mutex

	// Events contains all pet events that were published.
	Events []pet.Event

	// Payloads contains the JSON payloads of Events.
	Payloads [][]byte

	// States contains all state snapshots that were published.
	States []StateMsg

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads of SystemEvents.
	SystemPayloads [][]byte

	// PublishError, if set, is returned by Publish and PublishState.
	PublishError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	Closed    bool
	Connected bool
}

// NewFakePublisher creates a FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the pet event.
func (f *FakePublisher) Publish(event pet.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishState records the snapshot.
func (f *FakePublisher) PublishState(at time.Time, snap pet.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.States = append(f.States, StateMsg{At: at, Snapshot: snap})
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// EventNames returns "KIND:name" for every recorded pet event.
func (f *FakePublisher) EventNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Events))
	for i, e := range f.Events {
		out[i] = string(e.Kind) + ":" + e.Name
	}
	return out
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected returns Connected.
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Reset clears everything recorded.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = nil
	f.Payloads = nil
	f.States = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Closed = false
	f.Connected = false
}
