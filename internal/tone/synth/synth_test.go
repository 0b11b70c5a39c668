package synth

import (
	"encoding/binary"
	"testing"

	"github.com/sweeney/eggy/internal/tone"
)

func TestSquareWaveSilentByDefault(t *testing.T) {
	w := newSquareWave(8000)
	buf := make([]byte, 64)
	n, err := w.Read(buf)
	if err != nil || n != 64 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d: expected silence, got %d", i, b)
		}
	}
}

func TestSquareWavePeriod(t *testing.T) {
	w := newSquareWave(8000)
	w.freq.Store(1000) // 8 samples per cycle
	w.level.Store(tone.FullScale)

	buf := make([]byte, 2*16)
	w.Read(buf)

	pos, neg := 0, 0
	for i := 0; i < len(buf); i += 2 {
		v := int16(binary.LittleEndian.Uint16(buf[i:]))
		switch {
		case v > 0:
			pos++
		case v < 0:
			neg++
		}
	}
	if pos != 8 || neg != 8 {
		t.Errorf("expected 8 positive and 8 negative samples, got %d/%d", pos, neg)
	}
}

func TestSquareWaveOddBuffer(t *testing.T) {
	w := newSquareWave(8000)
	n, _ := w.Read(make([]byte, 5))
	if n != 4 {
		t.Errorf("expected whole samples only, got n=%d", n)
	}
}

func TestClamp(t *testing.T) {
	if clamp(-1) != 0 || clamp(tone.FullScale+10) != tone.FullScale || clamp(42) != 42 {
		t.Error("clamp out of range")
	}
}
