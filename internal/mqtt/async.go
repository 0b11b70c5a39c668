package mqtt

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sweeney/eggy/internal/pet"
)

// DefaultQueueSize is the number of messages Async holds for its sender.
const DefaultQueueSize = 64

var (
	// ErrQueueFull is returned when Async has no room for a message.
	ErrQueueFull = errors.New("mqtt queue full")
	// ErrClosed is returned by Async after Close.
	ErrClosed = errors.New("mqtt publisher closed")
)

type asyncMsg struct {
	event *pet.Event
	at    time.Time
	snap  pet.Snapshot
}

// Async sends pet events and state snapshots from its own goroutine, so a
// slow broker never stalls the caller. System events are sent synchronously.
// Close stops the sender; it does not close the wrapped Publisher.
type Async struct {
	pub   Publisher
	queue chan asyncMsg
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped      atomic.Int64
	sendErrs     rate.Sometimes
	drainTimeout time.Duration
}

// NewAsync starts a sender for pub with room for size queued messages.
func NewAsync(pub Publisher, size int) *Async {
	a := &Async{
		pub:          pub,
		queue:        make(chan asyncMsg, size),
		done:         make(chan struct{}),
		sendErrs:     rate.Sometimes{Interval: 10 * time.Second},
		drainTimeout: 2 * time.Second,
	}
	go a.loop()
	return a
}

func (a *Async) loop() {
	defer close(a.done)
	for m := range a.queue {
		var err error
		if m.event != nil {
			err = a.pub.Publish(*m.event)
		} else {
			err = a.pub.PublishState(m.at, m.snap)
		}
		if err != nil {
			a.sendErrs.Do(func() { log.Warn().Err(err).Msg("mqtt publish failed") })
		}
	}
}

func (a *Async) enqueue(m asyncMsg) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- m:
		return nil
	default:
		a.dropped.Add(1)
		return ErrQueueFull
	}
}

// Publish queues a pet event.
func (a *Async) Publish(event pet.Event) error {
	return a.enqueue(asyncMsg{event: &event})
}

// PublishState queues a state snapshot.
func (a *Async) PublishState(at time.Time, snap pet.Snapshot) error {
	return a.enqueue(asyncMsg{at: at, snap: snap})
}

// PublishSystem sends event on the caller's goroutine.
func (a *Async) PublishSystem(event SystemEvent) error {
	return a.pub.PublishSystem(event)
}

// Dropped returns how many messages were refused because the queue was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting messages and waits a short while for the queue to
// drain.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.drainTimeout):
		log.Warn().Int("pending", len(a.queue)).Msg("mqtt queue not drained before close")
	}
	return nil
}
