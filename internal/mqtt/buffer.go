package mqtt

import "github.com/rs/zerolog/log"

// bufferedMsg is a serialized message held for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer holds the newest capacity messages while disconnected,
// dropping the oldest. Callers synchronize.
type ringBuffer struct {
	buf     []bufferedMsg
	start   int // oldest message
	count   int
	dropped int // since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	if len(r.buf) == 0 {
		r.dropped++
		return
	}
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = msg
		r.count++
		return
	}
	if r.dropped == 0 {
		log.Warn().Int("capacity", len(r.buf)).Msg("mqtt buffer full, dropping oldest")
	}
	r.buf[r.start] = msg
	r.start = (r.start + 1) % len(r.buf)
	r.dropped++
}

// drain returns the buffered messages oldest first and how many were
// dropped, then empties the buffer.
func (r *ringBuffer) drain() ([]bufferedMsg, int) {
	dropped := r.dropped
	r.dropped = 0
	if r.count == 0 {
		return nil, dropped
	}
	out := make([]bufferedMsg, r.count)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
		r.buf[(r.start+i)%len(r.buf)] = bufferedMsg{}
	}
	r.start, r.count = 0, 0
	return out, dropped
}

func (r *ringBuffer) len() int {
	return r.count
}
