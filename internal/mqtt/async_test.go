package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/eggy/internal/pet"
)

// stalledPublisher blocks every Publish until release is closed.
type stalledPublisher struct {
	*FakePublisher
	release chan struct{}
}

func newStalledPublisher() *stalledPublisher {
	return &stalledPublisher{FakePublisher: NewFakePublisher(), release: make(chan struct{})}
}

func (s *stalledPublisher) Publish(e pet.Event) error {
	<-s.release
	return s.FakePublisher.Publish(e)
}

func (s *stalledPublisher) PublishState(at time.Time, snap pet.Snapshot) error {
	<-s.release
	return s.FakePublisher.PublishState(at, snap)
}

func testEvent(name string) pet.Event {
	return pet.Event{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Kind: pet.EventAction, Name: name}
}

func TestAsyncDoesNotWaitForBroker(t *testing.T) {
	inner := newStalledPublisher()
	a := NewAsync(inner, 8)

	start := time.Now()
	for _, name := range []string{"feed", "play", "clean"} {
		if err := a.Publish(testEvent(name)); err != nil {
			t.Fatalf("Publish(%s): %v", name, err)
		}
	}
	if err := a.PublishState(start, pet.Snapshot{Name: "Eggy"}); err != nil {
		t.Fatalf("PublishState: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("publishing took %v with a stalled broker", elapsed)
	}

	close(inner.release)
	a.Close()

	names := inner.EventNames()
	want := []string{"ACTION:feed", "ACTION:play", "ACTION:clean"}
	if len(names) != len(want) {
		t.Fatalf("events: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, names[i], want[i])
		}
	}
	if len(inner.States) != 1 {
		t.Errorf("expected 1 state, got %d", len(inner.States))
	}
}

func TestAsyncQueueFull(t *testing.T) {
	inner := newStalledPublisher()
	a := NewAsync(inner, 1)
	a.drainTimeout = 10 * time.Millisecond
	defer a.Close()
	defer close(inner.release)

	// The sender takes the first message and blocks; the second fills the
	// queue.
	a.Publish(testEvent("feed"))
	deadline := time.Now().Add(time.Second)
	for len(a.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := a.Publish(testEvent("play")); err != nil {
		t.Fatalf("second Publish: %v", err)
	}

	if err := a.Publish(testEvent("clean")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if a.Dropped() != 1 {
		t.Errorf("Dropped: got %d, want 1", a.Dropped())
	}
}

func TestAsyncClosed(t *testing.T) {
	inner := NewFakePublisher()
	a := NewAsync(inner, 4)
	a.Close()
	a.Close()

	if err := a.Publish(testEvent("feed")); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish after Close: got %v, want ErrClosed", err)
	}
	if err := a.PublishState(time.Now(), pet.Snapshot{}); !errors.Is(err, ErrClosed) {
		t.Errorf("PublishState after Close: got %v, want ErrClosed", err)
	}
	if inner.Closed {
		t.Error("Close should leave the wrapped publisher open")
	}
}

func TestAsyncCloseGivesUpOnStalledBroker(t *testing.T) {
	inner := newStalledPublisher()
	defer close(inner.release)
	a := NewAsync(inner, 4)
	a.drainTimeout = 20 * time.Millisecond

	a.Publish(testEvent("feed"))

	start := time.Now()
	a.Close()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Close took %v", elapsed)
	}
}

func TestAsyncSystemIsSynchronous(t *testing.T) {
	inner := NewFakePublisher()
	a := NewAsync(inner, 4)
	defer a.Close()

	if err := a.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(inner.SystemEvents) != 1 || inner.SystemEvents[0].Event != "HEARTBEAT" {
		t.Errorf("system events: got %+v", inner.SystemEvents)
	}

	inner.PublishSystemError = errors.New("broker down")
	if err := a.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected the system publish error to reach the caller")
	}
}

func TestAsyncPublishErrorsAreNotFatal(t *testing.T) {
	inner := NewFakePublisher()
	inner.PublishError = errors.New("broker down")
	a := NewAsync(inner, 4)

	if err := a.Publish(testEvent("feed")); err != nil {
		t.Errorf("Publish should queue despite broker errors, got %v", err)
	}
	a.Close()
}
