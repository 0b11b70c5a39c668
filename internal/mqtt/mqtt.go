// Package mqtt publishes pet events, state snapshots and daemon lifecycle
// events, with a fake for testing.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sweeney/eggy/internal/pet"
)

// TopicRoot is the first level of every topic.
const TopicRoot = "eggy"

// Topics are the per-pet topic names.
type Topics struct {
	Events string // action/cry/death events, QoS 0
	State  string // retained pet snapshot, QoS 0
	System string // lifecycle events and the last will, QoS 1
}

// TopicsFor returns the topics for a pet named name. The name is lowercased
// and MQTT wildcard and separator characters are replaced.
func TopicsFor(name string) Topics {
	base := TopicRoot + "/" + topicSegment(name)
	return Topics{
		Events: base + "/events",
		State:  base + "/state",
		System: base + "/system",
	}
}

func topicSegment(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.ToLower(pet.DefaultName)
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, name)
}

// Publisher publishes to MQTT. Errors are reported but never fatal.
type Publisher interface {
	// Publish sends a pet event.
	Publish(event pet.Event) error

	// PublishState sends the retained pet snapshot.
	PublishState(at time.Time, snap pet.Snapshot) error

	// PublishSystem sends a daemon lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECONNECTED"
	Reason     string // "SIGTERM", "SIGINT", "MQTT_DISCONNECT" (shutdown only)
	RawPayload []byte // pre-formatted JSON; returned as-is by FormatSystemPayload
	Retained   bool
}

// Payload is the envelope for pet events.
type Payload struct {
	Pet PetPayload `json:"pet"`
}

// PetPayload carries one pet event.
type PetPayload struct {
	Timestamp string       `json:"timestamp"`
	Event     string       `json:"event"`
	Name      string       `json:"name"`
	State     pet.Snapshot `json:"state"`
}

// FormatPayload creates the JSON payload for a pet event.
func FormatPayload(event pet.Event) ([]byte, error) {
	return json.Marshal(Payload{
		Pet: PetPayload{
			Timestamp: event.Time.UTC().Format(time.RFC3339),
			Event:     string(event.Kind),
			Name:      event.Name,
			State:     event.Snapshot,
		},
	})
}

// StatePayload is the envelope for retained state snapshots.
type StatePayload struct {
	Timestamp string       `json:"timestamp"`
	State     pet.Snapshot `json:"state"`
}

// FormatState creates the JSON payload for a state snapshot.
func FormatState(at time.Time, snap pet.Snapshot) ([]byte, error) {
	return json.Marshal(StatePayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		State:     snap,
	})
}

// SystemPayload is the payload for simple system events (will, RECONNECTED)
// that do not carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// A set RawPayload is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}

// WillEvent is the last-will message the broker publishes if the daemon
// drops off without a clean shutdown.
func WillEvent(at time.Time) SystemEvent {
	return SystemEvent{Timestamp: at, Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT", Retained: true}
}

// Nop is a Publisher that discards everything. Used when no broker is
// configured.
type Nop struct{}

func (Nop) Publish(pet.Event) error { return nil }
func (Nop) PublishState(time.Time, pet.Snapshot) error { return nil }
func (Nop) PublishSystem(SystemEvent) error { return nil }
func (Nop) Close() error { return nil }
func (Nop) IsConnected() bool { return false }
