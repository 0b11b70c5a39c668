package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/eggy/internal/pet"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second

	// bufferCapacity is how many messages are kept while offline.
	bufferCapacity = 256
)

var errPublishTimeout = errors.New("publish timeout")

// client is the part of paho.Client the publisher uses.
type client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an MQTT broker. Messages published while the
// connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client client
	topics Topics
	now    func() time.Time

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool // at least once
	replaying bool
}

func newPublisher(c client, topics Topics) *RealPublisher {
	return &RealPublisher{
		client: c,
		topics: topics,
		now:    time.Now,
		buf:    newRingBuffer(bufferCapacity),
	}
}

// NewRealPublisher connects to broker. If the broker is unreachable within
// the connect timeout the publisher is still returned: the client keeps
// retrying in the background and messages are buffered meanwhile.
func NewRealPublisher(broker, clientID string, topics Topics) (*RealPublisher, error) {
	p := newPublisher(nil, topics)

	will, err := FormatSystemPayload(WillEvent(p.now()))
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(topics.System, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn().Err(err).Msg("mqtt connection lost")
		})

	c := paho.NewClient(opts)
	p.client = c
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Warn().Str("broker", broker).Msg("mqtt broker not reachable yet, buffering")
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

// onConnect replays buffered messages. paho calls it on its own goroutine
// for the first connection and every reconnection. Messages published while
// the replay runs join the buffer so they go out after the older ones.
func (p *RealPublisher) onConnect(paho.Client) {
	p.mu.Lock()
	reconnect := p.connected
	p.connected = true
	p.replaying = true
	p.mu.Unlock()

	sent, dropped := 0, 0
	for {
		p.mu.Lock()
		msgs, lost := p.buf.drain()
		if len(msgs) == 0 {
			p.replaying = false
			p.mu.Unlock()
			break
		}
		p.mu.Unlock()

		dropped += lost
		for _, m := range msgs {
			if err := p.send(m); err != nil {
				log.Warn().Err(err).Str("topic", m.topic).Msg("mqtt replay failed")
			}
			sent++
		}
	}

	log.Info().Int("buffered", sent).Int("dropped", dropped).Msg("mqtt connected")

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"})
		if err := p.send(bufferedMsg{topic: p.topics.System, payload: payload, qos: 1, retained: true}); err != nil {
			log.Warn().Err(err).Msg("mqtt reconnected event failed")
		}
	}
}

// publish buffers m while offline or while older messages are still queued,
// and sends it otherwise.
func (p *RealPublisher) publish(m bufferedMsg) error {
	p.mu.Lock()
	if p.replaying || p.buf.len() > 0 || !p.client.IsConnectionOpen() {
		p.buf.push(m)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.send(m)
}

func (p *RealPublisher) send(m bufferedMsg) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}

// Publish sends a pet event.
func (p *RealPublisher) Publish(event pet.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	if err := p.publish(bufferedMsg{topic: p.topics.Events, payload: payload}); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishState sends the retained pet snapshot.
func (p *RealPublisher) PublishState(at time.Time, snap pet.Snapshot) error {
	payload, err := FormatState(at, snap)
	if err != nil {
		return fmt.Errorf("format state: %w", err)
	}
	if err := p.publish(bufferedMsg{topic: p.topics.State, payload: payload, retained: true}); err != nil {
		return fmt.Errorf("publish state: %w", err)
	}
	return nil
}

// PublishSystem sends a daemon lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	if err := p.publish(bufferedMsg{topic: p.topics.System, payload: payload, qos: 1, retained: event.Retained}); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
