// Package peripheral runs the fast button and buzzer loop.
//
// A Handler samples the buttons, debounces them and synthesizes one tone
// envelope per tick. Callers on other goroutines only see snapshots and
// read-and-clear edge events, and submit sounds; the buzzer and the debounced
// levels are written by the loop alone.
package peripheral

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sweeney/eggy/internal/audio"
	"github.com/sweeney/eggy/internal/gpio"
	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/tone"
)

// DefaultPoll is the loop period.
const DefaultPoll = 5 * time.Millisecond

// Handler owns the button reader and the tone device.
type Handler struct {
	reader gpio.Reader
	tone   tone.Device
	window time.Duration

	state shared

	// Owned by the loop goroutine
	debouncer *input.Debouncer
	active    *audio.Envelope
	readErrs  rate.Sometimes
	toneErrs  rate.Sometimes
}

// New creates a Handler. window is the debounce window.
func New(reader gpio.Reader, dev tone.Device, window time.Duration) *Handler {
	return &Handler{
		reader:   reader,
		tone:     dev,
		window:   window,
		readErrs: rate.Sometimes{Interval: 10 * time.Second},
		toneErrs: rate.Sometimes{Interval: 10 * time.Second},
	}
}

// Buttons returns a copy of the debounced button levels.
func (h *Handler) Buttons() input.Held {
	return h.state.buttons()
}

// ButtonEvents returns the edges seen since the last call and clears them.
func (h *Handler) ButtonEvents() input.Events {
	return h.state.takeEvents()
}

// PlaySound queues s, replacing any request not yet started. It does not wait
// for the current envelope; the loop switches to s on its next tick.
func (h *Handler) PlaySound(s audio.Sound) {
	h.state.submit(s)
}

// AudioStop discards any pending sound and silences the buzzer on the next tick.
func (h *Handler) AudioStop() {
	h.state.requestStop()
}

// Step runs one loop iteration at now.
func (h *Handler) Step(now time.Time) {
	h.buttonTask(now)
	h.audioTask(now)
}

// Run calls Step on every tick until ctx is done, then silences the buzzer.
func (h *Handler) Run(ctx context.Context, tick <-chan time.Time, now func() time.Time) error {
	defer h.silence()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			h.Step(now())
		}
	}
}

func (h *Handler) buttonTask(now time.Time) {
	l, m, r, err := h.reader.Read()
	if err != nil {
		h.readErrs.Do(func() {
			log.Warn().Err(err).Msg("button read failed")
		})
		return
	}

	s := input.Sample{Raw: [input.NumButtons]bool{l, m, r}, Time: now}
	if h.debouncer == nil {
		h.debouncer = input.NewDebouncer(h.window, s)
		return
	}

	edges := h.debouncer.Process(s)
	for _, e := range edges {
		log.Debug().Str("edge", e.String()).Msg("button")
	}
	h.state.publish(h.debouncer.Held(), edges)
}

func (h *Handler) audioTask(now time.Time) {
	req, stop := h.state.takeRequest()
	if stop {
		h.active = nil
		h.silence()
	}
	if req != nil {
		h.active = audio.Begin(*req, now)
	}
	if h.active == nil {
		return
	}

	freq, vol, done := h.active.At(now)
	if done {
		h.silence()
		h.active = nil
		return
	}

	if err := h.tone.SetFrequency(freq); err != nil {
		h.toneErr(err)
		return
	}
	if err := h.tone.SetAmplitude(vol); err != nil {
		h.toneErr(err)
	}
}

// Playing reports whether an envelope is active. Loop goroutine only.
func (h *Handler) Playing() bool {
	return h.active != nil
}

func (h *Handler) silence() {
	if err := h.tone.SetAmplitude(0); err != nil {
		h.toneErr(err)
	}
}

func (h *Handler) toneErr(err error) {
	h.toneErrs.Do(func() {
		log.Warn().Err(err).Msg("tone write failed")
	})
}
