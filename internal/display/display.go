// Package display renders pet frames.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Frame is everything drawn on screen for one frame.
type Frame struct {
	// Pet view
	Stats  string
	Status string
	Face   string

	// Menu view
	MenuOpen bool
	Menu     []string
	Cursor   int
}

// Text returns f as plain text lines.
func (f Frame) Text() string {
	var b strings.Builder
	if f.MenuOpen {
		b.WriteString("MENU\n")
		for i, name := range f.Menu {
			sel := " "
			if i == f.Cursor {
				sel = ">"
			}
			fmt.Fprintf(&b, "%s%s\n", sel, name)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n%s\n\n      %s\n", f.Stats, f.Status, f.Face)
	return b.String()
}

// Display shows frames.
type Display interface {
	Show(f Frame) error
}

// Writer draws frames to an io.Writer, skipping frames identical to the
// previous one.
type Writer struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewWriter returns a Display that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Show writes f if it differs from the last frame written.
func (d *Writer) Show(f Frame) error {
	text := f.Text()

	d.mu.Lock()
	defer d.mu.Unlock()
	if text == d.last {
		return nil
	}
	if _, err := io.WriteString(d.w, text+"----\n"); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	d.last = text
	return nil
}

// Discard is a Display that draws nothing.
type Discard struct{}

func (Discard) Show(Frame) error { return nil }
