package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPetViewText(t *testing.T) {
	f := Frame{Stats: "A4 H100 F8 E:98 Cl:98 Hp:100", Status: "Happy!", Face: "^_^"}
	want := "A4 H100 F8 E:98 Cl:98 Hp:100\nHappy!\n\n      ^_^\n"
	if got := f.Text(); got != want {
		t.Errorf("Text:\ngot  %q\nwant %q", got, want)
	}
}

func TestMenuText(t *testing.T) {
	f := Frame{MenuOpen: true, Menu: []string{"Feed", "Play", "Clean"}, Cursor: 1}
	want := "MENU\n Feed\n>Play\n Clean\n"
	if got := f.Text(); got != want {
		t.Errorf("Text:\ngot  %q\nwant %q", got, want)
	}
}

func TestWriterSkipsUnchangedFrames(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf)

	f := Frame{Stats: "RIP", Status: "Eggy died.", Face: "x_x"}
	for i := 0; i < 3; i++ {
		if err := d.Show(f); err != nil {
			t.Fatalf("Show: %v", err)
		}
	}
	if n := strings.Count(buf.String(), "----\n"); n != 1 {
		t.Errorf("expected 1 frame written, got %d", n)
	}

	f.Face = "o_o"
	if err := d.Show(f); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if n := strings.Count(buf.String(), "----\n"); n != 2 {
		t.Errorf("expected 2 frames written, got %d", n)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("i2c nak") }

func TestWriterError(t *testing.T) {
	d := NewWriter(failWriter{})
	f := Frame{Face: "o_o"}
	if err := d.Show(f); err == nil {
		t.Fatal("expected error")
	}
	// failed frames are retried
	if err := d.Show(f); err == nil {
		t.Fatal("expected error on retry")
	}
}

func TestDiscard(t *testing.T) {
	var d Display = Discard{}
	if err := d.Show(Frame{}); err != nil {
		t.Errorf("Discard.Show: %v", err)
	}
}
