// Package memchan binds the event channel contract to an in-process bus.
// It backs tests and the single-process demo mode.
package memchan

import (
	"context"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/internal/eventbus"
)

// Channel implements channel.Channel over an in-process fan-out bus.
type Channel struct {
	bus *eventbus.Bus
}

// New creates an in-process channel.
func New() *Channel {
	return &Channel{bus: eventbus.New()}
}

func (c *Channel) Publish(_ context.Context, topic string, payload []byte) error {
	c.bus.Publish(eventbus.Event{Topic: topic, Payload: payload})
	return nil
}

func (c *Channel) Subscribe(ctx context.Context, topic string) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, nil)
}

func (c *Channel) Watch(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, pred)
}

func (c *Channel) stream(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	sub := c.bus.Subscribe(topic)
	out := make(chan channel.Message)
	go func() {
		defer close(out)
		defer c.bus.Unsubscribe(topic, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				msg := channel.Message{Topic: ev.Topic, Payload: ev.Payload}
				if pred != nil && !pred(msg) {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *Channel) Close() error {
	c.bus.Close()
	return nil
}
