// Package audio describes tone effects as linear frequency/amplitude envelopes.
// Like package input it has no device dependencies; time is injected.
package audio

import "time"

// Output floors applied to every synthesized sample.
const (
	MinFrequency = 20 // Hz
	MinAmplitude = 0
	MaxAmplitude = 65535
)

// Sound is a request to play one linear envelope.
type Sound struct {
	FreqStart int `yaml:"freq_start" json:"freq_start"`
	FreqEnd   int `yaml:"freq_end" json:"freq_end"`
	VolStart  int `yaml:"vol_start" json:"vol_start"`
	VolEnd    int `yaml:"vol_end" json:"vol_end"`
	LengthMs  int `yaml:"length_ms" json:"length_ms"`
}

// Length returns the envelope length as a duration.
func (s Sound) Length() time.Duration {
	return time.Duration(s.LengthMs) * time.Millisecond
}

// Envelope is a sound that has started playing.
type Envelope struct {
	Sound Sound
	Start time.Time
}

// Begin starts s at now.
func Begin(s Sound, now time.Time) *Envelope {
	return &Envelope{Sound: s, Start: now}
}

// At returns the output parameters at now. done is true once the elapsed time
// exceeds the envelope length; freq and vol are then meaningless and the
// output should be silenced.
func (e *Envelope) At(now time.Time) (freq, vol int, done bool) {
	elapsed := now.Sub(e.Start)
	length := e.Sound.Length()
	if elapsed > length {
		return 0, 0, true
	}

	t := 1.0
	if length > 0 {
		t = float64(elapsed) / float64(length)
	}
	if t < 0 {
		t = 0
	}

	freq = int(float64(e.Sound.FreqStart) + float64(e.Sound.FreqEnd-e.Sound.FreqStart)*t)
	vol = int(float64(e.Sound.VolStart) + float64(e.Sound.VolEnd-e.Sound.VolStart)*t)
	if freq < MinFrequency {
		freq = MinFrequency
	}
	if vol < MinAmplitude {
		vol = MinAmplitude
	}
	return freq, vol, false
}
