// Package synth emulates the buzzer on the host sound card using oto.
package synth

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/sweeney/eggy/internal/tone"
)

var _ tone.Device = (*Synth)(nil)

// DefaultSampleRate is the synthesizer output rate.
const DefaultSampleRate = 44100

// Synth emulates the buzzer on the host sound card for development away
// from the hardware. It plays a square wave whose frequency and level track
// the last SetFrequency/SetAmplitude calls.
type Synth struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
}

// New opens the default audio output.
func New(sampleRate int) (*Synth, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready

	wave := newSquareWave(sampleRate)
	player := ctx.NewPlayer(wave)
	player.Play()

	return &Synth{ctx: ctx, player: player, wave: wave}, nil
}

// SetFrequency sets the square wave frequency.
func (s *Synth) SetFrequency(hz int) error {
	s.wave.freq.Store(int64(hz))
	return nil
}

// SetAmplitude sets the square wave level.
func (s *Synth) SetAmplitude(level int) error {
	s.wave.level.Store(int64(clamp(level)))
	return nil
}

// Close silences the output and suspends the audio context.
func (s *Synth) Close() error {
	s.wave.level.Store(0)
	s.player.Pause()
	if err := s.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspend audio output: %w", err)
	}
	return nil
}

// squareWave is an endless signed 16-bit mono PCM stream.
type squareWave struct {
	sampleRate int
	freq       atomic.Int64
	level      atomic.Int64

	// phase is only touched by Read, which oto calls from one goroutine
	phase float64
}

func newSquareWave(sampleRate int) *squareWave {
	return &squareWave{sampleRate: sampleRate}
}

// Read fills p with whole samples and never returns EOF.
func (w *squareWave) Read(p []byte) (int, error) {
	freq := float64(w.freq.Load())
	level := w.level.Load()
	peak := float64(level) / tone.FullScale * math.MaxInt16

	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		var v int16
		if freq > 0 && level > 0 {
			w.phase += freq / float64(w.sampleRate)
			w.phase -= math.Floor(w.phase)
			if w.phase < 0.5 {
				v = int16(peak)
			} else {
				v = -int16(peak)
			}
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(v))
	}
	return n, nil
}

func clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level > tone.FullScale {
		return tone.FullScale
	}
	return level
}
