package pet

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// AfterActionHook is called after an action runs, with the action name
// ("feed", "play", "clean", "sleep", "wakeup", "medicine", "discipline").
type AfterActionHook func(p *Pet, action string) error

// TickHook is called on every Update of a living pet.
type TickHook func(p *Pet) error

// FaceOverride may return a face to show instead of the mood face.
// An empty Face means no opinion.
type FaceOverride func(p *Pet) (Face, error)

// AddAfterActionHook registers fn to run after every action.
func (p *Pet) AddAfterActionHook(fn AfterActionHook) {
	p.afterAction = append(p.afterAction, fn)
}

// AddTickHook registers fn to run on every Update.
func (p *Pet) AddTickHook(fn TickHook) {
	p.perTick = append(p.perTick, fn)
}

// AddFaceOverride registers fn to be consulted before the mood faces.
// Overrides registered later take precedence.
func (p *Pet) AddFaceOverride(fn FaceOverride) {
	p.faceOverrides = append(p.faceOverrides, fn)
}

// guard runs fn, turning a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return fn()
}

func (p *Pet) triggerAfterAction(action string) {
	for i, h := range p.afterAction {
		if err := guard(func() error { return h(p, action) }); err != nil {
			log.Warn().Err(err).Str("pet", p.name).Str("action", action).Int("hook", i).Msg("after-action hook failed")
		}
	}
}

func (p *Pet) runTickHooks() {
	for i, h := range p.perTick {
		if err := guard(func() error { return h(p) }); err != nil {
			log.Warn().Err(err).Str("pet", p.name).Int("hook", i).Msg("tick hook failed")
		}
	}
}

func (p *Pet) runFaceOverrides() Face {
	var face Face
	for i, fn := range p.faceOverrides {
		var f Face
		err := guard(func() error {
			var err error
			f, err = fn(p)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Str("pet", p.name).Int("override", i).Msg("face override failed")
			continue
		}
		if f != "" {
			face = f
		}
	}
	return face
}
