package pet

import "time"

// Snapshot is the serializable state of a pet.
type Snapshot struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Hunger      int    `json:"hunger"`
	Happiness   int    `json:"happiness"`
	Cleanliness int    `json:"cleanliness"`
	Energy      int    `json:"energy"`
	Health      int    `json:"health"`
	Discipline  int    `json:"discipline"`
	Alive       bool   `json:"alive"`
	State       State  `json:"state"`
}

// Snapshot captures the current state.
func (p *Pet) Snapshot() Snapshot {
	v := p.vitals
	return Snapshot{
		Name:        p.name,
		Age:         v.Age,
		Hunger:      v.Hunger,
		Happiness:   v.Happiness,
		Cleanliness: v.Cleanliness,
		Energy:      v.Energy,
		Health:      v.Health,
		Discipline:  v.Discipline,
		Alive:       p.alive,
		State:       p.state,
	}
}

// Restore applies s field by field. Stats are clamped and the lifecycle
// fields are made consistent: a dead pet is never alive, and an alive pet
// in an unknown state is awake. Timers restart from the clock.
func (p *Pet) Restore(s Snapshot) {
	if s.Name != "" {
		p.name = s.Name
	}
	p.vitals = Vitals{
		Age:         s.Age,
		Hunger:      s.Hunger,
		Happiness:   s.Happiness,
		Cleanliness: s.Cleanliness,
		Energy:      s.Energy,
		Health:      s.Health,
		Discipline:  s.Discipline,
	}.clamped()

	switch {
	case !s.Alive || s.State == StateDead:
		p.alive = false
		p.state = StateDead
	case s.State == StateAsleep:
		p.alive = true
		p.state = StateAsleep
	default:
		p.alive = true
		p.state = StateAlive
	}

	now := p.clock()
	p.lastUpdate = now
	p.cry = ""
	if p.state == StateAsleep {
		p.setFace(FaceAsleep, sleepFaceDuration, now)
	} else {
		p.setFace(FaceNeutral, time.Second, now)
	}
}
