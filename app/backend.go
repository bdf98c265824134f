package app

import (
	"fmt"

	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/auction"
	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/memchan"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/mongochan"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/mqttchan"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/redischan"
)

// Backend bundles the event channel with the stores living in the same
// system. The MQTT broker and the in-process bus carry traffic only, so
// they pair with in-memory stores.
type Backend struct {
	Channel     channel.Channel
	Orders      auction.OrderStore
	Restaurants directory.Store
}

// NewBackend builds the configured transport binding.
func NewBackend(cfg *config.Config) (*Backend, error) {
	switch cfg.Transport.Backend {
	case config.BackendRedis:
		ch, err := redischan.New(cfg.Transport.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Channel:     ch,
			Orders:      redischan.NewOrderStore(ch),
			Restaurants: redischan.NewRestaurantStore(ch),
		}, nil
	case config.BackendMongo:
		ch, err := mongochan.New(cfg.Transport.Mongo)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Channel:     ch,
			Orders:      mongochan.NewOrderStore(ch, cfg.Channels),
			Restaurants: mongochan.NewRestaurantStore(ch),
		}, nil
	case config.BackendMQTT:
		ch, err := mqttchan.New(cfg.Transport.MQTT)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Channel:     ch,
			Orders:      auction.NewMemoryOrderStore(),
			Restaurants: directory.NewMemoryStore(nil),
		}, nil
	case config.BackendMemory:
		return &Backend{
			Channel:     memchan.New(),
			Orders:      auction.NewMemoryOrderStore(),
			Restaurants: directory.NewMemoryStore(nil),
		}, nil
	}
	return nil, fmt.Errorf("unknown transport backend %q", cfg.Transport.Backend)
}

// Close releases the channel connection.
func (b *Backend) Close() error {
	return b.Channel.Close()
}
