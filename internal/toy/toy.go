// Package toy runs the frame loop that connects the buttons and speaker to
// the pet: a pet view and a tamagotchi-style action menu.
package toy

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sweeney/eggy/internal/audio"
	"github.com/sweeney/eggy/internal/display"
	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/mqtt"
	"github.com/sweeney/eggy/internal/pet"
	"github.com/sweeney/eggy/internal/status"
)

// Frame pacing.
const (
	ViewWait   = 40 * time.Millisecond
	MenuWait   = 50 * time.Millisecond
	ActionWait = 180 * time.Millisecond // long enough to see the face change
)

// ActionDiscipline is the menu entry registered for Pet.Discipline.
const ActionDiscipline = "Discipline"

// Peripheral is the button and speaker side of the peripheral loop.
type Peripheral interface {
	Buttons() input.Held
	ButtonEvents() input.Events
	PlaySound(s audio.Sound)
}

var crySounds = map[pet.CryKind]string{
	pet.CryHunger: audio.SoundCryHunger,
	pet.CryDirty:  audio.SoundCryDirty,
	pet.CrySad:    audio.SoundCrySad,
	pet.CryDead:   audio.SoundCryDead,
}

// Options configures a Toy. Nil collaborators are replaced by no-ops.
type Options struct {
	Bank      audio.Bank
	Display   display.Display
	Publisher mqtt.Publisher
	Tracker   *status.Tracker

	// StateInterval is the minimum time between retained state
	// publishes. Zero disables them.
	StateInterval time.Duration

	// AngryAfterHour makes the pet angry from this local hour until
	// midnight. Negative disables.
	AngryAfterHour int
}

// Toy owns the pet and drives it one frame at a time. It is not safe for
// concurrent use.
type Toy struct {
	pet     *pet.Pet
	io      Peripheral
	bank    audio.Bank
	disp    display.Display
	pub     mqtt.Publisher
	tracker *status.Tracker
	state   *rate.Limiter

	menuOpen bool
	menu     []pet.Action
	cursor   int

	now      time.Time // time of the current frame
	wasAlive bool

	drawErrs rate.Sometimes
}

// New wires p to io and registers the toy's hooks and actions on p.
func New(p *pet.Pet, io Peripheral, opts Options) *Toy {
	t := &Toy{
		pet:      p,
		io:       io,
		bank:     opts.Bank,
		disp:     opts.Display,
		pub:      opts.Publisher,
		tracker:  opts.Tracker,
		wasAlive: p.Alive(),
		drawErrs: rate.Sometimes{Interval: 10 * time.Second},
	}
	if t.bank == nil {
		t.bank = audio.DefaultBank()
	}
	if t.disp == nil {
		t.disp = display.Discard{}
	}
	if t.pub == nil {
		t.pub = mqtt.Nop{}
	}
	if opts.StateInterval > 0 {
		t.state = rate.NewLimiter(rate.Every(opts.StateInterval), 1)
	}

	p.RegisterAction(ActionDiscipline, p.Discipline)
	p.AddAfterActionHook(t.onAction)
	if opts.AngryAfterHour >= 0 {
		hour := opts.AngryAfterHour
		p.AddFaceOverride(func(p *pet.Pet) (pet.Face, error) {
			if p.Alive() && !t.now.IsZero() && t.now.Hour() >= hour {
				return pet.FaceAngry, nil
			}
			return "", nil
		})
	}
	return t
}

// Pet returns the pet driven by t.
func (t *Toy) Pet() *pet.Pet { return t.pet }

// MenuOpen reports whether the menu is showing.
func (t *Toy) MenuOpen() bool { return t.menuOpen }

// Cursor returns the selected menu index.
func (t *Toy) Cursor() int { return t.cursor }

// onAction logs and publishes every pet action.
func (t *Toy) onAction(p *pet.Pet, action string) error {
	log.Info().Str("pet", p.Name()).Str("action", action).Msg("action")
	return t.pub.Publish(p.NewEvent(pet.EventAction, action, t.frameTime()))
}

func (t *Toy) frameTime() time.Time {
	if t.now.IsZero() {
		return time.Now()
	}
	return t.now
}

// Frame runs one frame at now and returns how long to wait before the next.
func (t *Toy) Frame(now time.Time) time.Duration {
	t.now = now
	events := t.io.ButtonEvents()
	if t.tracker != nil {
		t.tracker.SetButtons(t.io.Buttons())
	}

	var wait time.Duration
	if t.menuOpen {
		wait = t.menuFrame(events)
	} else {
		wait = t.viewFrame(now, events)
	}
	t.report(now)
	return wait
}

func (t *Toy) viewFrame(now time.Time, events input.Events) time.Duration {
	t.pet.Update(now)
	t.forwardCry(now)
	t.draw()

	switch {
	case events.Pressed(input.Middle):
		t.openMenu()
		t.play(audio.SoundBeep)
	case events.Pressed(input.Left):
		t.pet.Feed()
		t.play(audio.SoundFeed)
	case events.Pressed(input.Right):
		t.pet.Play()
		t.play(audio.SoundPlay)
	}
	return ViewWait
}

func (t *Toy) menuFrame(events input.Events) time.Duration {
	if len(t.menu) == 0 {
		t.openMenu()
	}

	wait := MenuWait
	switch {
	case events.Pressed(input.Left):
		t.cursor = (t.cursor - 1 + len(t.menu)) % len(t.menu)
		t.play(audio.SoundBeep)
	case events.Pressed(input.Right):
		t.cursor = (t.cursor + 1) % len(t.menu)
		t.play(audio.SoundBeep)
	case events.Pressed(input.Middle):
		action := t.menu[t.cursor]
		log.Debug().Str("item", action.Name).Msg("menu select")
		action.Run()
		t.play(audio.SoundSelect)
		t.menu = t.pet.MenuList()
		t.menuOpen = false
		wait = ActionWait
	}

	if t.menuOpen {
		t.draw()
	}
	return wait
}

func (t *Toy) openMenu() {
	t.menuOpen = true
	t.menu = t.pet.MenuList()
	t.cursor = 0
}

// forwardCry turns a pending cry into a sound and an event. A death is
// published once, on the frame it happens.
func (t *Toy) forwardCry(now time.Time) {
	if cry, ok := t.pet.CryRequest(); ok {
		if name, ok := crySounds[cry]; ok {
			t.play(name)
		}
		log.Info().Str("pet", t.pet.Name()).Str("cry", string(cry)).Msg("cry")
		if err := t.pub.Publish(t.pet.NewEvent(pet.EventCry, string(cry), now)); err != nil {
			log.Warn().Err(err).Msg("publish cry")
		}
	}

	if t.wasAlive && !t.pet.Alive() {
		v := t.pet.Vitals()
		log.Warn().Str("pet", t.pet.Name()).Int("age", v.Age).Int("happiness", v.Happiness).
			Int("health", v.Health).Msg("pet died")
		if err := t.pub.Publish(t.pet.NewEvent(pet.EventDeath, "dead", now)); err != nil {
			log.Warn().Err(err).Msg("publish death")
		}
	}
	t.wasAlive = t.pet.Alive()
}

func (t *Toy) play(name string) {
	s, err := t.bank.Get(name)
	if err != nil {
		log.Warn().Err(err).Msg("sound")
		return
	}
	t.io.PlaySound(s)
}

func (t *Toy) frame() display.Frame {
	if t.menuOpen {
		names := make([]string, len(t.menu))
		for i, a := range t.menu {
			names[i] = a.Name
		}
		return display.Frame{MenuOpen: true, Menu: names, Cursor: t.cursor}
	}
	return display.Frame{
		Stats:  t.pet.StatsText(),
		Status: t.pet.StatusLine(),
		Face:   t.pet.Glyph(),
	}
}

func (t *Toy) draw() {
	if err := t.disp.Show(t.frame()); err != nil {
		t.drawErrs.Do(func() { log.Warn().Err(err).Msg("display") })
	}
}

// report updates the tracker and publishes the state snapshot when the
// limiter allows it.
func (t *Toy) report(now time.Time) {
	snap := t.pet.Snapshot()
	if t.tracker != nil {
		v := status.PetView{
			Pet:        snap,
			Face:       t.pet.Face(),
			Glyph:      t.pet.Glyph(),
			Stats:      t.pet.StatsText(),
			StatusLine: t.pet.StatusLine(),
			MenuOpen:   t.menuOpen,
		}
		if t.menuOpen && t.cursor < len(t.menu) {
			v.MenuItem = t.menu[t.cursor].Name
		}
		t.tracker.UpdatePet(v)
	}
	if t.state != nil && t.state.AllowN(now, 1) {
		if err := t.pub.PublishState(now, snap); err != nil {
			log.Warn().Err(err).Msg("publish state")
		}
	}
}

// Run calls Frame until ctx is cancelled, sleeping for the returned wait
// between frames.
func (t *Toy) Run(ctx context.Context, now func() time.Time) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(t.Frame(now()))
		}
	}
}
