// Package input contains pure button debounce logic.
// This package has NO external dependencies (no GPIO, OS, or time.Sleep).
// Time is always injectable via Sample.Time.
package input

import "time"

// Button identifies one of the three front-panel buttons.
type Button int

const (
	Left Button = iota
	Middle
	Right
)

// NumButtons is the number of physical buttons.
const NumButtons = 3

// Buttons lists every button in scan order.
var Buttons = [NumButtons]Button{Left, Middle, Right}

func (b Button) String() string {
	switch b {
	case Left:
		return "L"
	case Middle:
		return "M"
	case Right:
		return "R"
	}
	return "?"
}

// Held is the debounced pressed state of each button (true = pressed).
type Held [NumButtons]bool

// Events holds edge flags since the last read-and-clear.
// Down[b] is set when b became pressed, Up[b] when it was released.
type Events struct {
	Down [NumButtons]bool
	Up   [NumButtons]bool
}

// Any reports whether any edge flag is set.
func (e Events) Any() bool {
	for i := 0; i < NumButtons; i++ {
		if e.Down[i] || e.Up[i] {
			return true
		}
	}
	return false
}

// Pressed reports whether b has a down edge.
func (e Events) Pressed(b Button) bool {
	return e.Down[b]
}

// Released reports whether b has an up edge.
func (e Events) Released(b Button) bool {
	return e.Up[b]
}

// Apply sets the flag for a committed edge.
func (e *Events) Apply(edge Edge) {
	if edge.Pressed {
		e.Down[edge.Button] = true
	} else {
		e.Up[edge.Button] = true
	}
}

// Edge is a committed (debounced) transition of one button.
type Edge struct {
	Button  Button
	Pressed bool
	Time    time.Time
}

func (e Edge) String() string {
	if e.Pressed {
		return e.Button.String() + "_down"
	}
	return e.Button.String() + "_up"
}

// Sample is one raw read of all buttons (true = pressed).
type Sample struct {
	Raw  [NumButtons]bool
	Time time.Time
}

// ButtonState tracks debounce state for a single button.
type ButtonState struct {
	// Current stable (debounced) state
	Held bool
	// Last raw value observed
	LastRaw bool
	// Time the raw value last changed
	LastChange time.Time
}
