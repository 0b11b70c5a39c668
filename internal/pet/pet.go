// Package pet contains the creature simulation.
// This package has NO hardware dependencies. Update takes the current time as
// a parameter; actions read it from an injectable clock, and randomness comes
// from an injectable Rand.
package pet

import (
	"time"
)

// DefaultName is the name given to a new pet.
const DefaultName = "Eggy"

// Timing constants.
const (
	MetabolicTick = 2 * time.Second
	CryCooldown   = 6 * time.Second
)

// Vital limits.
const (
	MinStat = 0
	MaxStat = 100
)

// State is the lifecycle state of a pet.
type State string

const (
	StateAlive  State = "alive"
	StateAsleep State = "asleep"
	StateDead   State = "dead"
)

// CryKind is the reason a pet is crying.
type CryKind string

const (
	CryHunger CryKind = "hunger"
	CryDirty  CryKind = "dirty"
	CrySad    CryKind = "sad"
	CryDead   CryKind = "dead"
)

// Vitals are the numeric stats of a pet. Everything except Age is kept in
// MinStat..MaxStat.
type Vitals struct {
	Age         int // seconds
	Hunger      int // 0 = full, 100 = starving
	Happiness   int
	Cleanliness int
	Energy      int
	Health      int
	Discipline  int // 0 = unruly, 100 = disciplined
}

// DefaultVitals returns the stats of a newborn pet.
func DefaultVitals() Vitals {
	return Vitals{
		Hunger:      0,
		Happiness:   100,
		Cleanliness: 100,
		Energy:      100,
		Health:      100,
		Discipline:  50,
	}
}

// clamped returns v with every bounded stat clamped and Age non-negative.
func (v Vitals) clamped() Vitals {
	if v.Age < 0 {
		v.Age = 0
	}
	v.Hunger = clamp(v.Hunger)
	v.Happiness = clamp(v.Happiness)
	v.Cleanliness = clamp(v.Cleanliness)
	v.Energy = clamp(v.Energy)
	v.Health = clamp(v.Health)
	v.Discipline = clamp(v.Discipline)
	return v
}

// Pet is a single simulated creature. It is not safe for concurrent use;
// the frame loop owns it.
type Pet struct {
	name   string
	vitals Vitals
	alive  bool
	state  State

	lastUpdate  time.Time
	lastFed     time.Time
	lastPlayed  time.Time
	lastCleaned time.Time
	lastSlept   time.Time
	lastCryTime time.Time
	cry         CryKind

	face           Face
	faceDuration   time.Duration
	lastFaceChange time.Time

	afterAction   []AfterActionHook
	perTick       []TickHook
	faceOverrides []FaceOverride
	actions       []Action

	clock func() time.Time
	rng   Rand
}

// Option configures a Pet.
type Option func(*Pet)

// WithClock sets the time source used by actions and construction.
func WithClock(now func() time.Time) Option {
	return func(p *Pet) { p.clock = now }
}

// WithRand sets the random source used for idle faces and cries.
func WithRand(r Rand) Option {
	return func(p *Pet) { p.rng = r }
}

// New creates a pet with default stats. An empty name uses DefaultName.
func New(name string, opts ...Option) *Pet {
	p := &Pet{
		clock: time.Now,
		rng:   defaultRand{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if name == "" {
		name = DefaultName
	}
	p.init(name)
	p.actions = p.builtinActions()
	return p
}

// init sets every creature field to its newborn value.
func (p *Pet) init(name string) {
	now := p.clock()
	p.name = name
	p.vitals = DefaultVitals()
	p.alive = true
	p.state = StateAlive

	p.lastUpdate = now
	p.lastFed = time.Time{}
	p.lastPlayed = time.Time{}
	p.lastCleaned = time.Time{}
	p.lastSlept = time.Time{}
	p.lastCryTime = time.Time{}
	p.cry = ""

	p.face = FaceNeutral
	p.faceDuration = time.Second
	p.lastFaceChange = now
}

// Reset replaces the creature with a newborn one. An empty name keeps the
// current name. Registered hooks, face overrides and actions are kept.
func (p *Pet) Reset(name string) {
	if name == "" {
		name = p.name
	}
	p.init(name)
}

// Name returns the pet's name.
func (p *Pet) Name() string { return p.name }

// Alive reports whether the pet is alive.
func (p *Pet) Alive() bool { return p.alive }

// State returns the lifecycle state.
func (p *Pet) State() State { return p.state }

// Vitals returns a copy of the stats.
func (p *Pet) Vitals() Vitals { return p.vitals }

// SetVitals replaces the stats, clamping them into range. Intended for hooks.
func (p *Pet) SetVitals(v Vitals) {
	p.vitals = v.clamped()
}

// LastUpdate returns the time of the last metabolic tick.
func (p *Pet) LastUpdate() time.Time { return p.lastUpdate }

// LastCry returns the time of the last cry.
func (p *Pet) LastCry() time.Time { return p.lastCryTime }

// CryRequest returns the pending cry and clears it.
func (p *Pet) CryRequest() (CryKind, bool) {
	c := p.cry
	p.cry = ""
	return c, c != ""
}

func clamp(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
