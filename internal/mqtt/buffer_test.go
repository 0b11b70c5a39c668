package mqtt

import "testing"

func pushN(r *ringBuffer, from, to int) {
	for i := from; i < to; i++ {
		r.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}
}

func assertPayloads(t *testing.T, got []bufferedMsg, want ...byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].payload[0] != want[i] {
			t.Errorf("message %d: got payload %d, want %d", i, got[i].payload[0], want[i])
		}
	}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	r := newRingBuffer(4)
	got, dropped := r.drain()
	if got != nil || dropped != 0 {
		t.Errorf("empty drain: got %d messages, %d dropped", len(got), dropped)
	}
}

func TestRingBufferOrder(t *testing.T) {
	r := newRingBuffer(4)
	pushN(r, 0, 3)

	got, dropped := r.drain()
	assertPayloads(t, got, 0, 1, 2)
	if dropped != 0 {
		t.Errorf("dropped: got %d, want 0", dropped)
	}
	if r.len() != 0 {
		t.Errorf("len after drain: got %d", r.len())
	}
}

func TestRingBufferDropsOldest(t *testing.T) {
	r := newRingBuffer(4)
	pushN(r, 0, 7)

	if r.len() != 4 {
		t.Errorf("len: got %d, want 4", r.len())
	}
	got, dropped := r.drain()
	assertPayloads(t, got, 3, 4, 5, 6)
	if dropped != 3 {
		t.Errorf("dropped: got %d, want 3", dropped)
	}

	_, dropped = r.drain()
	if dropped != 0 {
		t.Errorf("dropped count should reset on drain, got %d", dropped)
	}
}

func TestRingBufferReuseAfterWrap(t *testing.T) {
	r := newRingBuffer(3)
	pushN(r, 0, 5)
	r.drain()

	pushN(r, 10, 12)
	got, _ := r.drain()
	assertPayloads(t, got, 10, 11)
}

func TestRingBufferZeroCapacity(t *testing.T) {
	r := newRingBuffer(0)
	pushN(r, 0, 2)
	got, dropped := r.drain()
	if got != nil || dropped != 2 {
		t.Errorf("got %d messages, %d dropped; want 0, 2", len(got), dropped)
	}
}

func TestRingBufferKeepsFields(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: "eggy/pip/state", payload: []byte(`{}`), qos: 1, retained: true})

	got, _ := r.drain()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.topic != "eggy/pip/state" || string(m.payload) != "{}" || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}
