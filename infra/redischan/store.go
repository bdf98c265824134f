package redischan

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/core/ledger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// OrderStore persists order state as Redis hashes, one per order, plus a
// status key per request.
type OrderStore struct {
	rdb *redis.Client
}

// NewOrderStore creates an OrderStore on the channel's connection.
func NewOrderStore(c *Channel) *OrderStore { return &OrderStore{rdb: c.rdb} }

func requestKey(requestID string) string { return "order_req:" + requestID + ":status" }
func orderKey(orderID string) string     { return "order:" + orderID }

func (s *OrderStore) RecordDecision(ctx context.Context, requestID string, status model.RequestStatus) error {
	return s.rdb.Set(ctx, requestKey(requestID), string(status), 0).Err()
}

func (s *OrderStore) SaveOrder(ctx context.Context, order model.DeliveryOrder) error {
	return s.rdb.HSet(ctx, orderKey(order.ID), map[string]any{
		"request_id":     order.RequestID,
		"client_id":      order.ClientID,
		"restaurant_key": order.RestaurantRef,
		"dish":           order.Dish,
		"pickup":         order.Pickup,
		"dropoff":        order.Dropoff,
		"reward_eur":     order.RewardEUR,
		"status":         string(order.Status),
		"ts":             order.CreatedAt.Unix(),
	}).Err()
}

func (s *OrderStore) MarkAssigned(ctx context.Context, orderID string, a model.Assignment) error {
	return s.rdb.HSet(ctx, orderKey(orderID), map[string]any{
		"courier_id":  a.CourierID,
		"eta_minutes": a.ETAMinutes,
		"status":      string(model.OrderAssigned),
		"ts_assigned": a.AssignedAt.Unix(),
	}).Err()
}

func (s *OrderStore) MarkCompleted(ctx context.Context, orderID string) error {
	return s.rdb.HSet(ctx, orderKey(orderID), "status", string(model.OrderCompleted)).Err()
}

// Earnings scans completed order hashes and aggregates rewards per courier
// and restaurant.
func (s *OrderStore) Earnings(ctx context.Context) (ledger.Report, error) {
	l := ledger.New()
	iter := s.rdb.Scan(ctx, 0, "order:*", 200).Iterator()
	for iter.Next(ctx) {
		data, err := s.rdb.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return ledger.Report{}, fmt.Errorf("read %s: %w", iter.Val(), err)
		}
		if data["status"] != string(model.OrderCompleted) {
			continue
		}
		reward, err := strconv.ParseFloat(data["reward_eur"], 64)
		if err != nil {
			continue
		}
		l.Record(data["courier_id"], data["restaurant_key"], reward)
	}
	if err := iter.Err(); err != nil {
		return ledger.Report{}, fmt.Errorf("scan orders: %w", err)
	}
	return l.Report(), nil
}

// RestaurantStore keeps the directory in Redis: one hash per restaurant
// with normalized fields, an index set for random sampling and a list per
// synthesized menu.
type RestaurantStore struct {
	rdb   *redis.Client
	index string
}

// NewRestaurantStore creates a RestaurantStore on the channel's connection.
func NewRestaurantStore(c *Channel) *RestaurantStore {
	return &RestaurantStore{rdb: c.rdb, index: c.cfg.RestaurantIndex}
}

func (s *RestaurantStore) Put(ctx context.Context, r model.Restaurant) error {
	if err := s.rdb.HSet(ctx, r.Key, map[string]any{
		"_std_name":    r.Name,
		"_std_city":    r.City,
		"_std_address": r.Address,
		"_std_cuisine": r.Cuisine,
		"_std_lat":     r.Lat,
		"_std_lon":     r.Lon,
		"_std_rating":  r.Rating,
	}).Err(); err != nil {
		return err
	}
	return s.rdb.SAdd(ctx, s.index, r.Key).Err()
}

func (s *RestaurantStore) Get(ctx context.Context, key string) (model.Restaurant, error) {
	data, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return model.Restaurant{}, err
	}
	if len(data) == 0 {
		return model.Restaurant{}, directory.ErrNotFound
	}
	r := model.Restaurant{
		Key:     key,
		Name:    data["_std_name"],
		City:    data["_std_city"],
		Address: data["_std_address"],
		Cuisine: data["_std_cuisine"],
		Lat:     data["_std_lat"],
		Lon:     data["_std_lon"],
		Rating:  data["_std_rating"],
	}
	if menuKey := data["_menu_key"]; menuKey != "" {
		menu, err := s.rdb.LRange(ctx, menuKey, 0, -1).Result()
		if err == nil {
			r.Menu = menu
		}
	}
	return r, nil
}

func (s *RestaurantStore) Random(ctx context.Context, n int) ([]model.Restaurant, error) {
	keys, err := s.rdb.SRandMemberN(ctx, s.index, int64(n)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Restaurant, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RestaurantStore) SaveMenu(ctx context.Context, key string, menu []string) error {
	menuKey := fmt.Sprintf("%s:menu:%d", key, time.Now().UnixNano())
	items := make([]any, len(menu))
	for i, m := range menu {
		items[i] = m
	}
	if err := s.rdb.RPush(ctx, menuKey, items...).Err(); err != nil {
		return err
	}
	return s.rdb.HSet(ctx, key, "_menu_key", menuKey).Err()
}
