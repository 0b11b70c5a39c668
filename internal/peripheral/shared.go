package peripheral

import (
	"sync"

	"github.com/sweeney/eggy/internal/audio"
	"github.com/sweeney/eggy/internal/input"
)

// shared is the only state crossing between the peripheral loop and its
// callers. Every method holds the lock for a constant number of field copies
// and never performs I/O.
type shared struct {
	mu      sync.Mutex
	held    input.Held
	events  input.Events
	request *audio.Sound
	stop    bool
}

func (s *shared) buttons() input.Held {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// takeEvents returns the pending edge flags and clears them.
func (s *shared) takeEvents() input.Events {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.events
	s.events = input.Events{}
	return ev
}

// submit replaces any pending request.
func (s *shared) submit(snd audio.Sound) {
	s.mu.Lock()
	s.request = &snd
	s.mu.Unlock()
}

// requestStop drops any pending request and asks the loop to silence output.
func (s *shared) requestStop() {
	s.mu.Lock()
	s.request = nil
	s.stop = true
	s.mu.Unlock()
}

// publish stores debounced levels and raises flags for new edges.
func (s *shared) publish(held input.Held, edges []input.Edge) {
	s.mu.Lock()
	s.held = held
	for _, e := range edges {
		s.events.Apply(e)
	}
	s.mu.Unlock()
}

// takeRequest returns and clears the pending request and stop flag.
func (s *shared) takeRequest() (*audio.Sound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, stop := s.request, s.stop
	s.request = nil
	s.stop = false
	return req, stop
}
