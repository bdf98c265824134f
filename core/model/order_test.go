package model

import (
	"errors"
	"testing"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderAnnounced, OrderAssigned, true},
		{OrderAssigned, OrderCompleted, true},
		{OrderAnnounced, OrderCompleted, false},
		{OrderAssigned, OrderAnnounced, false},
		{OrderCompleted, OrderAssigned, false},
		{OrderCompleted, OrderCompleted, false},
	}
	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestOrderRequestValidate(t *testing.T) {
	valid := OrderRequest{ID: "req-1", ClientID: "client-1", RestaurantRef: "restaurant:1", Dish: "Margherita"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	for name, mutate := range map[string]func(*OrderRequest){
		"id":         func(r *OrderRequest) { r.ID = "" },
		"client":     func(r *OrderRequest) { r.ClientID = "" },
		"restaurant": func(r *OrderRequest) { r.RestaurantRef = "" },
		"dish":       func(r *OrderRequest) { r.Dish = "" },
	} {
		r := valid
		mutate(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("missing %s accepted", name)
		}
	}
}

func TestDecodeCandidature(t *testing.T) {
	good := []byte(`{"order_id":"order-1","courier_id":"courier-a","eta_minutes":7}`)
	c, err := DecodeCandidature(good)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.CourierID != "courier-a" || c.ETAMinutes != 7 {
		t.Fatalf("wrong candidature: %+v", c)
	}

	var malformedErr *MalformedMessageError
	for name, payload := range map[string][]byte{
		"not json":     []byte(`{garbage`),
		"zero eta":     []byte(`{"order_id":"order-1","courier_id":"courier-a","eta_minutes":0}`),
		"negative eta": []byte(`{"order_id":"order-1","courier_id":"courier-a","eta_minutes":-3}`),
		"no courier":   []byte(`{"order_id":"order-1","eta_minutes":5}`),
	} {
		if _, err := DecodeCandidature(payload); !errors.As(err, &malformedErr) {
			t.Errorf("%s: want MalformedMessageError, got %v", name, err)
		}
	}
}

func TestDecodeOrderRequestDefaultsStatus(t *testing.T) {
	req, err := DecodeOrderRequest([]byte(`{"order_request_id":"req-1","client_id":"c","restaurant_key":"restaurant:1","dish":"Tacos"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Status != RequestPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}
}

func TestPickupLine(t *testing.T) {
	cases := []struct {
		r    Restaurant
		want string
	}{
		{Restaurant{Key: "restaurant:1", Name: "Chez Momo", City: "Lyon", Address: "1 rue Victor Hugo"}, "Chez Momo (Lyon) · 1 rue Victor Hugo"},
		{Restaurant{Key: "restaurant:2", Name: "Chez Momo"}, "Chez Momo"},
		{Restaurant{Key: "restaurant:3", City: "Paris"}, "restaurant:3 (Paris)"},
	}
	for _, c := range cases {
		if got := c.r.PickupLine(); got != c.want {
			t.Errorf("PickupLine() = %q, want %q", got, c.want)
		}
	}
}
