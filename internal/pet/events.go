package pet

import "time"

// EventKind classifies a pet event.
type EventKind string

const (
	EventAction EventKind = "ACTION"
	EventCry    EventKind = "CRY"
	EventDeath  EventKind = "DEATH"
)

// Event is something that happened to a pet, for publishing.
type Event struct {
	Time     time.Time
	Kind     EventKind
	Name     string // action name or cry kind
	Snapshot Snapshot
}

// NewEvent records kind/name at t with the pet's current snapshot.
func (p *Pet) NewEvent(kind EventKind, name string, t time.Time) Event {
	return Event{Time: t, Kind: kind, Name: name, Snapshot: p.Snapshot()}
}
