// Package mongochan binds the event channel contract to MongoDB: a publish
// is an insert and a subscription is a change stream filtered on inserts.
// The deployment must be a replica set, change streams do not work on a
// standalone server.
package mongochan

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

// Config defines the MongoDB connection parameters.
type Config struct {
	// URL is a mongodb:// or mongodb+srv:// connection string.
	URL      string `json:"url"`
	Database string `json:"database"`
	// OrdersCollection holds order state documents.
	OrdersCollection string `json:"orders_collection"`
	// RestaurantCollection holds the directory documents.
	RestaurantCollection string `json:"restaurant_collection"`
}

// SetDefaults applies the reference defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "mongodb://127.0.0.1:27017"
	}
	if c.Database == "" {
		c.Database = "ubereats_poc"
	}
	if c.OrdersCollection == "" {
		c.OrdersCollection = "orders"
	}
	if c.RestaurantCollection == "" {
		c.RestaurantCollection = "restaurants"
	}
}

// Channel implements channel.Channel over MongoDB change streams. Each
// topic maps to one collection.
type Channel struct {
	cli *mongo.Client
	db  *mongo.Database
	cfg Config
	log logger.Logger
}

// New connects to MongoDB and pings it. A failed ping wraps
// channel.ErrConnection: the caller aborts at startup.
func New(cfg Config) (*Channel, error) {
	cfg.SetDefaults()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", channel.ErrConnection, cfg.URL, err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping %s: %v", channel.ErrConnection, cfg.URL, err)
	}
	return &Channel{cli: cli, db: cli.Database(cfg.Database), cfg: cfg, log: logger.New("mongo-channel")}, nil
}

func (c *Channel) Publish(ctx context.Context, topic string, payload []byte) error {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(payload, false, &doc); err != nil {
		return fmt.Errorf("publish %s: encode document: %w", topic, err)
	}
	_, err := c.db.Collection(topic).InsertOne(ctx, doc)
	return err
}

func (c *Channel) Subscribe(ctx context.Context, topic string) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, nil)
}

func (c *Channel) Watch(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	return c.stream(ctx, topic, pred)
}

func (c *Channel) stream(ctx context.Context, topic string, pred channel.Predicate) (<-chan channel.Message, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}
	cs, err := c.db.Collection(topic).Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", topic, err)
	}
	out := make(chan channel.Message)
	go func() {
		defer close(out)
		defer func() {
			if err := cs.Close(context.Background()); err != nil {
				c.log.Warnf("close change stream %s: %v", topic, err)
			}
		}()
		for cs.Next(ctx) {
			var ev struct {
				FullDocument bson.Raw `bson:"fullDocument"`
			}
			if err := cs.Decode(&ev); err != nil {
				c.log.Warnf("decode change event on %s: %v", topic, err)
				continue
			}
			payload, err := bson.MarshalExtJSON(ev.FullDocument, false, false)
			if err != nil {
				c.log.Warnf("encode change event on %s: %v", topic, err)
				continue
			}
			msg := channel.Message{Topic: topic, Payload: payload}
			if pred != nil && !pred(msg) {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			c.log.Errorf("change stream %s: %v", topic, err)
		}
	}()
	return out, nil
}

func (c *Channel) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return c.cli.Disconnect(ctx)
}
