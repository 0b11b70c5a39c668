package tone

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeSysfs creates pwmchip0/pwm0 with empty attribute files.
func fakeSysfs(t *testing.T) (root, dir string) {
	t.Helper()
	root = t.TempDir()
	dir = filepath.Join(root, "pwmchip0", "pwm0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"period", "duty_cycle", "enable"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, dir
}

func readAttr(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return strings.TrimSpace(string(b))
}

func TestOpenPWMStartsDisabled(t *testing.T) {
	root, dir := fakeSysfs(t)

	p, err := OpenPWM(root, 0, 0)
	if err != nil {
		t.Fatalf("OpenPWM: %v", err)
	}
	if p.enabled {
		t.Error("expected disabled after open")
	}
	if got := readAttr(t, dir, "enable"); got != "0" {
		t.Errorf("enable: got %q, want 0", got)
	}
}

func TestOpenPWMMissingChip(t *testing.T) {
	if _, err := OpenPWM(t.TempDir(), 3, 0); err == nil {
		t.Error("expected error for missing chip")
	}
}

func TestPWMFrequencyAndAmplitude(t *testing.T) {
	root, dir := fakeSysfs(t)
	p, err := OpenPWM(root, 0, 0)
	if err != nil {
		t.Fatalf("OpenPWM: %v", err)
	}

	if err := p.SetAmplitude(FullScale / 2); err != nil {
		t.Fatalf("SetAmplitude: %v", err)
	}
	// No period yet, nothing written
	if got := readAttr(t, dir, "duty_cycle"); got != "0" {
		t.Errorf("duty before frequency: got %q, want 0", got)
	}

	if err := p.SetFrequency(1000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if got := readAttr(t, dir, "period"); got != "1000000" {
		t.Errorf("period: got %q, want 1000000", got)
	}
	if got := readAttr(t, dir, "duty_cycle"); got != "499992" {
		t.Errorf("duty: got %q, want 499992", got)
	}
	if got := readAttr(t, dir, "enable"); got != "1" {
		t.Errorf("enable: got %q, want 1", got)
	}

	if err := p.SetAmplitude(0); err != nil {
		t.Fatalf("SetAmplitude(0): %v", err)
	}
	if got := readAttr(t, dir, "duty_cycle"); got != "0" {
		t.Errorf("duty after silence: got %q, want 0", got)
	}
}

func TestPWMZeroFrequencyDisables(t *testing.T) {
	root, dir := fakeSysfs(t)
	p, _ := OpenPWM(root, 0, 0)

	p.SetAmplitude(1000)
	p.SetFrequency(440)
	if err := p.SetFrequency(0); err != nil {
		t.Fatalf("SetFrequency(0): %v", err)
	}
	if got := readAttr(t, dir, "enable"); got != "0" {
		t.Errorf("enable: got %q, want 0", got)
	}
}

func TestPWMClose(t *testing.T) {
	root, dir := fakeSysfs(t)
	p, _ := OpenPWM(root, 0, 0)
	p.SetAmplitude(1000)
	p.SetFrequency(440)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := readAttr(t, dir, "duty_cycle"); got != "0" {
		t.Errorf("duty after close: got %q, want 0", got)
	}
	if got := readAttr(t, dir, "enable"); got != "0" {
		t.Errorf("enable after close: got %q, want 0", got)
	}
}

func TestFakeRecordsWrites(t *testing.T) {
	f := NewFake()
	f.SetFrequency(700)
	f.SetAmplitude(500)

	hz, level := f.Last()
	if hz != 700 || level != 500 {
		t.Errorf("Last: got (%d, %d), want (700, 500)", hz, level)
	}
	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(f.Writes))
	}
	if !f.Writes[0].Frequency || f.Writes[1].Frequency {
		t.Errorf("unexpected write kinds: %+v", f.Writes)
	}
	if f.Silent() {
		t.Error("expected not silent")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed")
	}

	f.Reset()
	if len(f.Writes) != 0 || f.Closed {
		t.Error("Reset did not clear state")
	}
}

func TestFakeWriteError(t *testing.T) {
	f := NewFake()
	f.WriteError = errors.New("simulated error")

	if err := f.SetFrequency(100); err == nil {
		t.Error("expected SetFrequency error")
	}
	if err := f.SetAmplitude(100); err == nil {
		t.Error("expected SetAmplitude error")
	}
	if len(f.Writes) != 0 {
		t.Error("failed writes should not be recorded")
	}
}

func TestClampLevel(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0},
		{0, 0},
		{1000, 1000},
		{FullScale + 1, FullScale},
	}
	for _, tt := range tests {
		if got := clampLevel(tt.in); got != tt.want {
			t.Errorf("clampLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
