package pet

import "time"

// Update advances the simulation to now. It is meant to be called once per
// frame; stats only change once MetabolicTick has passed since the last tick.
func (p *Pet) Update(now time.Time) {
	if !p.alive {
		p.setFace(FaceSick, 0, now)
		return
	}

	if dt := now.Sub(p.lastUpdate); dt >= MetabolicTick {
		p.metabolize(now, dt)
	}

	p.runTickHooks()

	if now.Sub(p.lastFaceChange) > p.faceDuration {
		p.chooseFace(now)
	}

	p.maybeCry(now)
}

// metabolize applies one metabolic tick covering dt.
func (p *Pet) metabolize(now time.Time, dt time.Duration) {
	v := &p.vitals
	v.Age += int(dt / time.Second)
	p.lastUpdate = now

	// Natural decay
	v.Hunger = clamp(v.Hunger + 2)
	v.Cleanliness = clamp(v.Cleanliness - 1)
	if p.state == StateAlive {
		v.Energy = clamp(v.Energy - 1)
	}

	if v.Hunger > 70 {
		v.Happiness = clamp(v.Happiness - 3)
	}
	if v.Cleanliness < 40 {
		v.Happiness = clamp(v.Happiness - 7)
	}
	if v.Energy < 20 {
		v.Happiness = clamp(v.Happiness - 8)
	}

	if v.Hunger > 90 || v.Cleanliness < 30 || v.Energy < 10 {
		v.Health = clamp(v.Health - 1)
	}

	if p.state == StateAsleep && v.Energy >= 96 {
		p.toggleSleep(now)
	}

	// Also reachable while asleep
	if v.Happiness == 0 || v.Health == 0 {
		p.die(now)
	}
}

func (p *Pet) die(now time.Time) {
	p.alive = false
	p.state = StateDead
	p.setFace(FaceSick, 0, now)
	p.cry = CryDead
	p.lastCryTime = now
}

// cryExponent returns n such that a cry passes its gate with probability
// 1 in 2^n. Better discipline means rarer cries.
func (p *Pet) cryExponent() int {
	return max(2, 7-p.vitals.Discipline/20)
}

// maybeCry raises at most one cry request, checked in priority order.
func (p *Pet) maybeCry(now time.Time) {
	if !p.awake() {
		return
	}
	if now.Sub(p.lastCryTime) < CryCooldown {
		return
	}

	exp := p.cryExponent()
	v := p.vitals
	var kind CryKind
	switch {
	case v.Hunger > 70 && p.rng.Bits(exp) == 0:
		kind = CryHunger
	case v.Cleanliness < 35 && p.rng.Bits(exp+1) == 0:
		kind = CryDirty
	case v.Happiness < 25 && p.rng.Bits(exp) == 0:
		kind = CrySad
	default:
		return
	}
	p.cry = kind
	p.lastCryTime = now
}
