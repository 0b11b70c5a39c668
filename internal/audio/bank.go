package audio

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSound is returned when a bank has no sound with the requested name.
var ErrUnknownSound = errors.New("unknown sound")

// Names of the built-in sounds.
const (
	SoundBeep      = "beep"
	SoundSelect    = "select"
	SoundFeed      = "feed"
	SoundPlay      = "play"
	SoundCryHunger = "cry_hunger"
	SoundCryDirty  = "cry_dirty"
	SoundCrySad    = "cry_sad"
	SoundCryDead   = "cry_dead"
)

// Bank maps sound names to envelopes.
type Bank map[string]Sound

// DefaultBank returns the built-in sounds.
func DefaultBank() Bank {
	return Bank{
		SoundBeep:      {FreqStart: 800, FreqEnd: 600, VolStart: 1000, VolEnd: 0, LengthMs: 50},
		SoundSelect:    {FreqStart: 400, FreqEnd: 800, VolStart: 1000, VolEnd: 0, LengthMs: 140},
		SoundFeed:      {FreqStart: 220, FreqEnd: 400, VolStart: 1200, VolEnd: 0, LengthMs: 90},
		SoundPlay:      {FreqStart: 400, FreqEnd: 900, VolStart: 1200, VolEnd: 0, LengthMs: 90},
		SoundCryHunger: {FreqStart: 900, FreqEnd: 600, VolStart: 1000, VolEnd: 0, LengthMs: 180},
		SoundCryDirty:  {FreqStart: 300, FreqEnd: 600, VolStart: 300, VolEnd: 700, LengthMs: 120},
		SoundCrySad:    {FreqStart: 800, FreqEnd: 400, VolStart: 700, VolEnd: 300, LengthMs: 180},
		SoundCryDead:   {FreqStart: 600, FreqEnd: 100, VolStart: 1000, VolEnd: 800, LengthMs: 90},
	}
}

// Get returns the named sound.
func (b Bank) Get(name string) (Sound, error) {
	s, ok := b[name]
	if !ok {
		return Sound{}, fmt.Errorf("%w: %q", ErrUnknownSound, name)
	}
	return s, nil
}

// Names returns the sound names in sorted order.
func (b Bank) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// bankFile is the YAML layout of a sound bank file.
type bankFile struct {
	Sounds map[string]Sound `yaml:"sounds"`
}

// LoadBank reads a YAML sound bank and overlays it on the built-in sounds.
// An empty path returns the defaults.
func LoadBank(path string) (Bank, error) {
	bank := DefaultBank()
	if path == "" {
		return bank, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sound bank: %w", err)
	}
	return ParseBank(data, bank)
}

// ParseBank decodes YAML sound definitions into a copy of base.
func ParseBank(data []byte, base Bank) (Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sound bank: %w", err)
	}

	out := make(Bank, len(base)+len(f.Sounds))
	for n, s := range base {
		out[n] = s
	}
	for n, s := range f.Sounds {
		if err := validateSound(s); err != nil {
			return nil, fmt.Errorf("sound %q: %w", n, err)
		}
		out[n] = s
	}
	return out, nil
}

func validateSound(s Sound) error {
	if s.LengthMs <= 0 {
		return fmt.Errorf("length_ms must be positive, got %d", s.LengthMs)
	}
	if s.FreqStart < 0 || s.FreqEnd < 0 {
		return fmt.Errorf("frequency must not be negative")
	}
	for _, v := range []int{s.VolStart, s.VolEnd} {
		if v < MinAmplitude || v > MaxAmplitude {
			return fmt.Errorf("volume %d outside %d..%d", v, MinAmplitude, MaxAmplitude)
		}
	}
	return nil
}
