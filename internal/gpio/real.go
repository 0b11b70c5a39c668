//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads buttons from actual hardware using the Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [3]*gpiocdev.Line
}

var lineNames = [3]string{"left", "middle", "right"}

// NewRealReader requests the three button lines on chip as pulled-up inputs.
func NewRealReader(chip string, pins Pins) (*RealReader, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: c}
	for i, pin := range []int{pins.Left, pins.Middle, pins.Right} {
		// Buttons short the line to ground; the pull-up holds it high when released.
		l, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("eggy"))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", lineNames[i], pin, err)
		}
		r.lines[i] = l
	}
	return r, nil
}

// Read returns the logical pressed state of each button.
// Inverts raw GPIO: raw inactive (0) = pressed, raw active (1) = released.
func (r *RealReader) Read() (bool, bool, bool, error) {
	var pressed [3]bool
	for i, l := range r.lines {
		v, err := l.Value()
		if err != nil {
			return false, false, false, fmt.Errorf("read %s pin: %w", lineNames[i], err)
		}
		pressed[i] = v == 0
	}
	return pressed[0], pressed[1], pressed[2], nil
}

// Close releases GPIO resources.
// Lines are returned to plain inputs with pull-up before closing so the
// buttons stay in a defined state after shutdown.
func (r *RealReader) Close() error {
	var errs []error
	for i, l := range r.lines {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", lineNames[i], err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", lineNames[i], err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}
