package tone

import "sync"

// Write is one recorded call on a Fake.
type Write struct {
	Frequency bool // true = SetFrequency, false = SetAmplitude
	Value     int
}

// Fake is a test double that records every write.
type Fake struct {
	mu sync.Mutex

	// Writes contains all calls in order.
	Writes []Write

	// Frequency and Amplitude hold the last written values.
	Frequency int
	Amplitude int

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, is returned by SetFrequency and SetAmplitude.
	WriteError error
}

// NewFake creates a silent Fake.
func NewFake() *Fake {
	return &Fake{}
}

// SetFrequency records the frequency.
func (f *Fake) SetFrequency(hz int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Frequency = hz
	f.Writes = append(f.Writes, Write{Frequency: true, Value: hz})
	return nil
}

// SetAmplitude records the amplitude.
func (f *Fake) SetAmplitude(level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Amplitude = level
	f.Writes = append(f.Writes, Write{Value: level})
	return nil
}

// Close marks the device as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Silent reports whether the last amplitude written was zero.
func (f *Fake) Silent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Amplitude == 0
}

// Last returns the last frequency and amplitude written.
func (f *Fake) Last() (hz, level int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Frequency, f.Amplitude
}

// Reset clears recorded writes.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes = nil
	f.Frequency = 0
	f.Amplitude = 0
	f.Closed = false
	f.WriteError = nil
}
