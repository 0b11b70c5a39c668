package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestEnvelopeMidpoint(t *testing.T) {
	e := Begin(Sound{FreqStart: 800, FreqEnd: 600, VolStart: 1000, VolEnd: 0, LengthMs: 50}, t0)

	freq, vol, done := e.At(t0.Add(ms(25)))
	if done {
		t.Fatal("envelope should not be done at 25ms")
	}
	if freq != 700 {
		t.Errorf("freq at 25ms: got %d, want 700", freq)
	}
	if vol != 500 {
		t.Errorf("vol at 25ms: got %d, want 500", vol)
	}
}

func TestEnvelopeEndpoints(t *testing.T) {
	e := Begin(Sound{FreqStart: 400, FreqEnd: 800, VolStart: 1000, VolEnd: 0, LengthMs: 140}, t0)

	freq, vol, done := e.At(t0)
	if done || freq != 400 || vol != 1000 {
		t.Errorf("at start: got (%d, %d, %v), want (400, 1000, false)", freq, vol, done)
	}

	freq, vol, done = e.At(t0.Add(ms(140)))
	if done || freq != 800 || vol != 0 {
		t.Errorf("at length: got (%d, %d, %v), want (800, 0, false)", freq, vol, done)
	}

	if _, _, done = e.At(t0.Add(ms(141))); !done {
		t.Error("expected done after length elapsed")
	}
}

func TestEnvelopeDoneAfterLength(t *testing.T) {
	e := Begin(Sound{FreqStart: 800, FreqEnd: 600, VolStart: 1000, VolEnd: 0, LengthMs: 50}, t0)
	if _, _, done := e.At(t0.Add(ms(51))); !done {
		t.Error("expected done at 51ms")
	}
}

func TestEnvelopeFloors(t *testing.T) {
	e := Begin(Sound{FreqStart: 600, FreqEnd: 0, VolStart: 100, VolEnd: -500, LengthMs: 100}, t0)

	freq, vol, _ := e.At(t0.Add(ms(99)))
	if freq != MinFrequency {
		t.Errorf("freq: got %d, want floor %d", freq, MinFrequency)
	}
	if vol != 0 {
		t.Errorf("vol: got %d, want 0", vol)
	}
}

func TestEnvelopeZeroLength(t *testing.T) {
	e := Begin(Sound{FreqStart: 300, FreqEnd: 500, VolStart: 10, VolEnd: 20, LengthMs: 0}, t0)

	freq, vol, done := e.At(t0)
	if done {
		t.Fatal("zero-length envelope should play once at its start time")
	}
	if freq != 500 || vol != 20 {
		t.Errorf("got (%d, %d), want end values (500, 20)", freq, vol)
	}
	if _, _, done := e.At(t0.Add(time.Millisecond)); !done {
		t.Error("expected done after any elapsed time")
	}
}

func TestDefaultBank(t *testing.T) {
	b := DefaultBank()
	beep, err := b.Get(SoundBeep)
	if err != nil {
		t.Fatalf("get beep: %v", err)
	}
	want := Sound{FreqStart: 800, FreqEnd: 600, VolStart: 1000, VolEnd: 0, LengthMs: 50}
	if beep != want {
		t.Errorf("beep: got %+v, want %+v", beep, want)
	}

	for _, name := range []string{SoundSelect, SoundFeed, SoundPlay, SoundCryHunger, SoundCryDirty, SoundCrySad, SoundCryDead} {
		if _, err := b.Get(name); err != nil {
			t.Errorf("missing built-in sound %q", name)
		}
	}
}

func TestBankGetUnknown(t *testing.T) {
	_, err := DefaultBank().Get("kazoo")
	if !errors.Is(err, ErrUnknownSound) {
		t.Errorf("expected ErrUnknownSound, got %v", err)
	}
}

func TestParseBankOverlay(t *testing.T) {
	data := []byte(`
sounds:
  beep:
    freq_start: 1000
    freq_end: 900
    vol_start: 2000
    vol_end: 0
    length_ms: 30
  chirp:
    freq_start: 1500
    freq_end: 2500
    vol_start: 800
    vol_end: 800
    length_ms: 60
`)
	b, err := ParseBank(data, DefaultBank())
	if err != nil {
		t.Fatalf("ParseBank: %v", err)
	}

	beep, _ := b.Get(SoundBeep)
	if beep.FreqStart != 1000 || beep.LengthMs != 30 {
		t.Errorf("beep not overridden: %+v", beep)
	}
	chirp, err := b.Get("chirp")
	if err != nil {
		t.Fatalf("chirp missing: %v", err)
	}
	if chirp.FreqEnd != 2500 {
		t.Errorf("chirp.FreqEnd: got %d, want 2500", chirp.FreqEnd)
	}
	if _, err := b.Get(SoundCryDead); err != nil {
		t.Error("defaults should survive overlay")
	}
}

func TestParseBankDoesNotMutateBase(t *testing.T) {
	base := DefaultBank()
	_, err := ParseBank([]byte("sounds:\n  beep: {freq_start: 1, freq_end: 1, vol_start: 1, vol_end: 1, length_ms: 1}\n"), base)
	if err != nil {
		t.Fatalf("ParseBank: %v", err)
	}
	if base[SoundBeep].FreqStart != 800 {
		t.Error("base bank was mutated")
	}
}

func TestParseBankValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero length", "sounds:\n  x: {freq_start: 100, freq_end: 100, vol_start: 1, vol_end: 1, length_ms: 0}\n"},
		{"negative freq", "sounds:\n  x: {freq_start: -1, freq_end: 100, vol_start: 1, vol_end: 1, length_ms: 10}\n"},
		{"volume too high", "sounds:\n  x: {freq_start: 100, freq_end: 100, vol_start: 70000, vol_end: 1, length_ms: 10}\n"},
		{"bad yaml", "sounds: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBank([]byte(tt.yaml), DefaultBank()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadBank(t *testing.T) {
	b, err := LoadBank("")
	if err != nil {
		t.Fatalf("LoadBank(\"\"): %v", err)
	}
	if len(b) != len(DefaultBank()) {
		t.Errorf("expected defaults, got %d sounds", len(b))
	}

	path := filepath.Join(t.TempDir(), "sounds.yaml")
	if err := os.WriteFile(path, []byte("sounds:\n  boop: {freq_start: 440, freq_end: 440, vol_start: 500, vol_end: 0, length_ms: 100}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err = LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if _, err := b.Get("boop"); err != nil {
		t.Error("expected boop from file")
	}

	if _, err := LoadBank(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBankNamesSorted(t *testing.T) {
	names := Bank{"b": {}, "a": {}, "c": {}}.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("unexpected names: %v", names)
	}
}
