package mongochan

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/core/ledger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// OrderStore persists order state as documents in the orders collection and
// decision feedback on the request documents.
type OrderStore struct {
	orders   *mongo.Collection
	requests *mongo.Collection
}

// NewOrderStore creates an OrderStore on the channel's connection. The
// requests topic doubles as the collection holding request documents.
func NewOrderStore(c *Channel, topics channel.Topics) *OrderStore {
	return &OrderStore{
		orders:   c.db.Collection(c.cfg.OrdersCollection),
		requests: c.db.Collection(topics.Requests),
	}
}

func (s *OrderStore) RecordDecision(ctx context.Context, requestID string, status model.RequestStatus) error {
	_, err := s.requests.UpdateOne(ctx,
		bson.M{"order_request_id": requestID},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	return err
}

func (s *OrderStore) SaveOrder(ctx context.Context, order model.DeliveryOrder) error {
	_, err := s.orders.InsertOne(ctx, bson.M{
		"_id":            order.ID,
		"request_id":     order.RequestID,
		"client_id":      order.ClientID,
		"restaurant_key": order.RestaurantRef,
		"dish":           order.Dish,
		"pickup":         order.Pickup,
		"dropoff":        order.Dropoff,
		"reward_eur":     order.RewardEUR,
		"status":         string(order.Status),
		"ts_created":     order.CreatedAt,
	})
	return err
}

func (s *OrderStore) MarkAssigned(ctx context.Context, orderID string, a model.Assignment) error {
	res, err := s.orders.UpdateByID(ctx, orderID, bson.M{"$set": bson.M{
		"courier_id":  a.CourierID,
		"eta_minutes": a.ETAMinutes,
		"status":      string(model.OrderAssigned),
		"ts_assigned": a.AssignedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (s *OrderStore) MarkCompleted(ctx context.Context, orderID string) error {
	_, err := s.orders.UpdateByID(ctx, orderID, bson.M{"$set": bson.M{
		"status": string(model.OrderCompleted),
	}})
	return err
}

// Earnings aggregates completed orders server-side, grouped by courier and
// by restaurant.
func (s *OrderStore) Earnings(ctx context.Context) (ledger.Report, error) {
	rep := ledger.Report{
		Couriers:    make(map[string]ledger.Totals),
		Restaurants: make(map[string]ledger.Totals),
	}
	for _, group := range []struct {
		field string
		into  map[string]ledger.Totals
	}{
		{"$courier_id", rep.Couriers},
		{"$restaurant_key", rep.Restaurants},
	} {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: string(model.OrderCompleted)}}}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: group.field},
				{Key: "total", Value: bson.D{{Key: "$sum", Value: "$reward_eur"}}},
				{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}
		cur, err := s.orders.Aggregate(ctx, pipeline)
		if err != nil {
			return ledger.Report{}, fmt.Errorf("aggregate earnings: %w", err)
		}
		var rows []struct {
			ID     string  `bson:"_id"`
			Total  float64 `bson:"total"`
			Orders int     `bson:"orders"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return ledger.Report{}, fmt.Errorf("read earnings: %w", err)
		}
		for _, row := range rows {
			group.into[row.ID] = ledger.Totals{TotalEUR: row.Total, Orders: row.Orders}
		}
	}
	return rep, nil
}

// RestaurantStore keeps the directory as one document per restaurant.
type RestaurantStore struct {
	coll *mongo.Collection
}

// NewRestaurantStore creates a RestaurantStore on the channel's connection.
func NewRestaurantStore(c *Channel) *RestaurantStore {
	return &RestaurantStore{coll: c.db.Collection(c.cfg.RestaurantCollection)}
}

type restaurantDoc struct {
	Key     string   `bson:"_id"`
	Name    string   `bson:"_std_name"`
	City    string   `bson:"_std_city"`
	Address string   `bson:"_std_address"`
	Cuisine string   `bson:"_std_cuisine"`
	Lat     string   `bson:"_std_lat"`
	Lon     string   `bson:"_std_lon"`
	Rating  string   `bson:"_std_rating"`
	Menu    []string `bson:"menu,omitempty"`
}

func toDoc(r model.Restaurant) restaurantDoc {
	return restaurantDoc{
		Key:     r.Key,
		Name:    r.Name,
		City:    r.City,
		Address: r.Address,
		Cuisine: r.Cuisine,
		Lat:     r.Lat,
		Lon:     r.Lon,
		Rating:  r.Rating,
		Menu:    r.Menu,
	}
}

func (d restaurantDoc) toModel() model.Restaurant {
	return model.Restaurant{
		Key:     d.Key,
		Name:    d.Name,
		City:    d.City,
		Address: d.Address,
		Cuisine: d.Cuisine,
		Lat:     d.Lat,
		Lon:     d.Lon,
		Rating:  d.Rating,
		Menu:    d.Menu,
	}
}

func (s *RestaurantStore) Put(ctx context.Context, r model.Restaurant) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": r.Key},
		toDoc(r),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *RestaurantStore) Get(ctx context.Context, key string) (model.Restaurant, error) {
	var doc restaurantDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Restaurant{}, directory.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return doc.toModel(), nil
}

func (s *RestaurantStore) Random(ctx context.Context, n int) ([]model.Restaurant, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []restaurantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Restaurant, len(docs))
	for i, d := range docs {
		out[i] = d.toModel()
	}
	return out, nil
}

func (s *RestaurantStore) SaveMenu(ctx context.Context, key string, menu []string) error {
	res, err := s.coll.UpdateByID(ctx, key, bson.M{"$set": bson.M{"menu": menu}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return directory.ErrNotFound
	}
	return nil
}
