// Package mqttchan binds the event channel contract to an MQTT broker
// using Eclipse Paho. The broker carries traffic only; order state and the
// directory need one of the store-backed bindings or the in-memory stores.
package mqttchan

import (
	"context"
	"fmt"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies the reference defaults.
func (c *Config) SetDefaults() {
	if c.Broker == "" {
		c.Broker = "tcp://127.0.0.1:1883"
	}
	if c.ClientID == "" {
		u := uuid.New()
		c.ClientID = fmt.Sprintf("ubereat-%x", u[:4])
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Channel implements channel.Channel over a single Paho connection. The
// broker subscription per topic is shared: local subscribers register in a
// fan-out table so sequential auctions never race on broker subscriptions.
type Channel struct {
	c   pahoClient
	qos byte
	log logger.Logger

	mu         sync.Mutex
	subscribed map[string]bool
	subs       map[string][]chan channel.Message
	closed     bool
}

// New connects to the broker. A failed connect wraps channel.ErrConnection.
func New(cfg Config) (*Channel, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("mqtt-channel")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", channel.ErrConnection, cfg.Broker, token.Error())
	}
	return &Channel{
		c:          c,
		qos:        cfg.QoS,
		log:        log,
		subscribed: make(map[string]bool),
		subs:       make(map[string][]chan channel.Message),
	}, nil
}

func (ch *Channel) Publish(_ context.Context, topic string, payload []byte) error {
	token := ch.c.Publish(topic, ch.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

func (ch *Channel) Subscribe(ctx context.Context, topic string) (<-chan channel.Message, error) {
	return ch.stream(ctx, topic, nil)
}

func (ch *Channel) Watch(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	return ch.stream(ctx, topic, pred)
}

func (ch *Channel) stream(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	if err := ch.ensureSubscribed(topic); err != nil {
		return nil, err
	}
	sub := make(chan channel.Message, 64)
	ch.mu.Lock()
	ch.subs[topic] = append(ch.subs[topic], sub)
	ch.mu.Unlock()

	out := make(chan channel.Message)
	go func() {
		defer close(out)
		defer ch.drop(topic, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
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

// ensureSubscribed takes the broker subscription the first time a topic is
// used; later subscribers share it through the fan-out table.
func (ch *Channel) ensureSubscribed(topic string) error {
	ch.mu.Lock()
	already := ch.subscribed[topic]
	ch.subscribed[topic] = true
	ch.mu.Unlock()
	if already {
		return nil
	}
	token := ch.c.Subscribe(topic, ch.qos, func(_ paho.Client, m paho.Message) {
		ch.fanOut(channel.Message{Topic: m.Topic(), Payload: m.Payload()})
	})
	if token.Wait() && token.Error() != nil {
		ch.mu.Lock()
		ch.subscribed[topic] = false
		ch.mu.Unlock()
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return nil
}

func (ch *Channel) fanOut(msg channel.Message) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for _, sub := range ch.subs[msg.Topic] {
		select {
		case sub <- msg:
		default:
			ch.log.Warnf("subscriber lagging on %s, dropping message", msg.Topic)
		}
	}
}

func (ch *Channel) drop(topic string, sub chan channel.Message) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	chans := ch.subs[topic]
	for i, s := range chans {
		if s == sub {
			ch.subs[topic] = append(chans[:i], chans[i+1:]...)
			return
		}
	}
}

func (ch *Channel) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	ch.mu.Unlock()
	ch.c.Disconnect(250)
	return nil
}
