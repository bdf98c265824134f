// Package redischan binds the event channel contract to Redis pub/sub and
// persists orders and restaurants in the same Redis instance.
package redischan

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

// Config defines the Redis connection parameters.
type Config struct {
	// URL is a redis:// connection string.
	URL string `json:"url"`
	// RestaurantIndex is the set holding all restaurant keys.
	RestaurantIndex string `json:"restaurant_index"`
}

// SetDefaults applies the reference defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "redis://127.0.0.1:6379/0"
	}
	if c.RestaurantIndex == "" {
		c.RestaurantIndex = "restaurants:index"
	}
}

// Channel implements channel.Channel over Redis pub/sub. Every subscriber
// of a topic receives every message published on it; there is no replay.
type Channel struct {
	rdb *redis.Client
	cfg Config
	log logger.Logger
}

// New connects to Redis and pings it. A failed ping wraps
// channel.ErrConnection: the caller aborts at startup.
func New(cfg Config) (*Channel, error) {
	cfg.SetDefaults()
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", channel.ErrConnection, cfg.URL, err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", channel.ErrConnection, cfg.URL, err)
	}
	return &Channel{rdb: rdb, cfg: cfg, log: logger.New("redis-channel")}, nil
}

// Client exposes the underlying connection for the stores.
func (c *Channel) Client() *redis.Client { return c.rdb }

func (c *Channel) Publish(ctx context.Context, topic string, payload []byte) error {
	return c.rdb.Publish(ctx, topic, payload).Err()
}

func (c *Channel) Subscribe(ctx context.Context, topic string) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, nil)
}

func (c *Channel) Watch(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, pred)
}

func (c *Channel) stream(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	sub := c.rdb.Subscribe(ctx, topic)
	// Force the SUBSCRIBE round-trip so a broken connection surfaces here
	// instead of as a silent empty stream.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	in := sub.Channel()
	out := make(chan channel.Message)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				c.log.Warnf("close subscription %s: %v", topic, err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				msg := channel.Message{Topic: m.Channel, Payload: []byte(m.Payload)}
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
	return c.rdb.Close()
}
