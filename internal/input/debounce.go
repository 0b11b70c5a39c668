package input

import "time"

// DefaultWindow is how long a raw level must stay unchanged before it is committed.
const DefaultWindow = 10 * time.Millisecond

// Debouncer tracks raw button levels and commits transitions once they are stable.
type Debouncer struct {
	window  time.Duration
	buttons [NumButtons]ButtonState
}

// NewDebouncer creates a debouncer seeded with the levels in initial.
// All buttons start released; a button already pressed in initial produces a
// down edge once it has been stable for the window.
func NewDebouncer(window time.Duration, initial Sample) *Debouncer {
	d := &Debouncer{window: window}
	for i := range d.buttons {
		d.buttons[i] = ButtonState{
			LastRaw:    initial.Raw[i],
			LastChange: initial.Time,
		}
	}
	return d
}

// Process takes a new raw sample and returns the edges committed by it.
func (d *Debouncer) Process(s Sample) []Edge {
	var edges []Edge
	for _, b := range Buttons {
		if edge, ok := d.processButton(&d.buttons[b], s.Raw[b], s.Time); ok {
			edge.Button = b
			edges = append(edges, edge)
		}
	}
	return edges
}

// processButton handles debounce logic for a single button.
func (d *Debouncer) processButton(st *ButtonState, raw bool, now time.Time) (Edge, bool) {
	if raw != st.LastRaw {
		// (Re)start the stability timer; held is untouched
		st.LastRaw = raw
		st.LastChange = now
		return Edge{}, false
	}

	if now.Sub(st.LastChange) <= d.window {
		return Edge{}, false
	}

	if raw == st.Held {
		return Edge{}, false
	}

	st.Held = raw
	return Edge{Pressed: raw, Time: now}, true
}

// Held returns the current debounced states.
func (d *Debouncer) Held() Held {
	var h Held
	for i := range d.buttons {
		h[i] = d.buttons[i].Held
	}
	return h
}

// State returns the debounce state of one button.
func (d *Debouncer) State(b Button) ButtonState {
	return d.buttons[b]
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
