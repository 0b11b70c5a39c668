// Package tone drives the single-channel tone output (a piezo buzzer).
// The PWM implementation uses a Linux sysfs PWM channel and Fake records
// writes for tests. Package synth plays the tone on the host sound card.
package tone

// FullScale is the amplitude that corresponds to a 100% duty cycle.
const FullScale = 65535

// Device accepts a target frequency and amplitude.
// Writing amplitude 0 is the canonical silence command.
type Device interface {
	// SetFrequency sets the output frequency in Hz. Zero disables the output.
	SetFrequency(hz int) error

	// SetAmplitude sets the output level in 0..FullScale.
	SetAmplitude(level int) error

	// Close silences and releases the device.
	Close() error
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > FullScale {
		return FullScale
	}
	return level
}
