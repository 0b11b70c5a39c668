// Package gpio provides button input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the raw button levels.
type Reader interface {
	// Read returns the pressed state of the left, middle and right buttons.
	// Buttons pull the line low, so raw inactive (0) = logical pressed.
	// No debouncing is performed.
	Read() (left, middle, right bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinLeft   = 17
	DefaultPinMiddle = 27
	DefaultPinRight  = 22
)

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Pins holds the BCM line offsets of the three buttons.
type Pins struct {
	Left   int
	Middle int
	Right  int
}

// DefaultPins returns the standard wiring.
func DefaultPins() Pins {
	return Pins{Left: DefaultPinLeft, Middle: DefaultPinMiddle, Right: DefaultPinRight}
}
