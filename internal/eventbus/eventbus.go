package eventbus

import "sync"

// Event is one payload published on a topic.
type Event struct {
	Topic   string
	Payload []byte
}

// Bus is a topic-keyed fan-out bus. Every subscriber of a topic receives
// every event published on it after subscribing. Delivery is non-blocking:
// a subscriber that falls more than subBuffer events behind loses the
// overflow, mirroring fire-and-forget broker semantics.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Event
	closed bool
}

const subBuffer = 64

// New creates a new Bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Publish sends the event to all subscribers of its topic.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs[e.Topic] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber for the topic and returns its channel.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, subBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs[topic] = append(b.subs[topic], ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber from the topic and closes its channel.
func (b *Bus) Unsubscribe(topic string, sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	chans := b.subs[topic]
	for i, ch := range chans {
		if ch == sub {
			b.subs[topic] = append(chans[:i], chans[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the registry.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = nil
	b.mu.Unlock()
}
