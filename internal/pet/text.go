package pet

import "fmt"

// StatsText returns the compact stat line for the top of the display.
func (p *Pet) StatsText() string {
	if !p.alive {
		return "RIP"
	}
	v := p.vitals
	return fmt.Sprintf("A%d H%d F%d E:%d Cl:%d Hp:%d",
		v.Age, v.Happiness, v.Hunger, v.Energy, v.Cleanliness, v.Health)
}

// StatusLine returns a short player-facing status, most urgent first.
func (p *Pet) StatusLine() string {
	v := p.vitals
	switch {
	case !p.alive:
		return p.name + " died."
	case p.state == StateAsleep:
		return "Sleeping..."
	case v.Hunger > 75:
		return "Hungry!"
	case v.Cleanliness < 25:
		return "Dirty!"
	case v.Energy < 20:
		return "Very Tired..."
	case v.Health < 60:
		return "Unwell..."
	case v.Happiness < 30:
		return "Sad..."
	}
	return "Happy!"
}
