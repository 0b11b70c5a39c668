package pet

import "time"

// Action is a named menu entry.
type Action struct {
	Name string
	Run  func()
}

// Menu names of the built-in actions.
const (
	ActionFeed     = "Feed"
	ActionPlay     = "Play"
	ActionClean    = "Clean"
	ActionSleep    = "Sleep"
	ActionMedicine = "Medicine"
)

func (p *Pet) builtinActions() []Action {
	return []Action{
		{Name: ActionFeed, Run: p.Feed},
		{Name: ActionPlay, Run: p.Play},
		{Name: ActionClean, Run: p.Clean},
		{Name: ActionSleep, Run: p.Sleep},
		{Name: ActionMedicine, Run: p.GiveMedicine},
	}
}

// RegisterAction adds a menu entry. An existing entry with the same name is
// replaced in place; new entries go to the end.
func (p *Pet) RegisterAction(name string, run func()) {
	for i := range p.actions {
		if p.actions[i].Name == name {
			p.actions[i].Run = run
			return
		}
	}
	p.actions = append(p.actions, Action{Name: name, Run: run})
}

// MenuList returns the registered actions in menu order.
func (p *Pet) MenuList() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

func (p *Pet) awake() bool {
	return p.alive && p.state == StateAlive
}

// Feed lowers hunger and cheers the pet up. Awake pets only.
func (p *Pet) Feed() {
	if !p.awake() {
		return
	}
	now := p.clock()
	p.vitals.Hunger = clamp(p.vitals.Hunger - 30)
	p.vitals.Happiness = clamp(p.vitals.Happiness + 8)
	p.vitals.Energy = clamp(p.vitals.Energy + 4)
	p.lastFed = now
	p.setFace(FaceHappy, 900*time.Millisecond, now)
	p.triggerAfterAction("feed")
}

// Play raises happiness at the cost of energy. A tired or hungry pet sulks
// instead. Awake pets only.
func (p *Pet) Play() {
	if !p.awake() {
		return
	}
	now := p.clock()
	if p.vitals.Energy > 10 && p.vitals.Hunger < 80 {
		p.vitals.Happiness = clamp(p.vitals.Happiness + 14)
		p.vitals.Energy = clamp(p.vitals.Energy - 16)
		p.lastPlayed = now
		p.setFace(FaceVeryHappy, 900*time.Millisecond, now)
	} else {
		p.setFace(FaceSad, 900*time.Millisecond, now)
	}
	p.triggerAfterAction("play")
}

// Clean restores cleanliness. Awake pets only.
func (p *Pet) Clean() {
	if !p.awake() {
		return
	}
	now := p.clock()
	p.vitals.Cleanliness = MaxStat
	p.vitals.Happiness = clamp(p.vitals.Happiness + 4)
	p.lastCleaned = now
	p.setFace(FaceNeutral, 700*time.Millisecond, now)
	p.triggerAfterAction("clean")
}

// Sleep puts an awake pet to sleep, or wakes a sleeping one.
func (p *Pet) Sleep() {
	p.toggleSleep(p.clock())
}

func (p *Pet) toggleSleep(now time.Time) {
	if !p.alive {
		return
	}
	switch p.state {
	case StateAlive:
		p.state = StateAsleep
		p.setFace(FaceAsleep, sleepFaceDuration, now)
		p.lastSlept = now
		p.triggerAfterAction("sleep")
	case StateAsleep:
		p.state = StateAlive
		p.vitals.Energy = MaxStat
		p.setFace(FaceHappy, 700*time.Millisecond, now)
		p.triggerAfterAction("wakeup")
	}
}

// GiveMedicine restores health. Works asleep or awake.
func (p *Pet) GiveMedicine() {
	if !p.alive {
		return
	}
	now := p.clock()
	p.vitals.Health = clamp(p.vitals.Health + 30)
	// brief grimace, immediately replaced
	p.setFace(FaceSick, 500*time.Millisecond, now)
	p.setFace(FaceNeutral, 700*time.Millisecond, now)
	p.triggerAfterAction("medicine")
}

// Discipline makes the pet better behaved, so it cries less often.
// Applies in any state.
func (p *Pet) Discipline() {
	now := p.clock()
	p.vitals.Discipline = clamp(p.vitals.Discipline + 10)
	p.setFace(FaceAngry, 400*time.Millisecond, now)
	p.triggerAfterAction("discipline")
}
