package model

import (
	"fmt"
	"time"
)

// RequestStatus tracks the lifecycle of a client order request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// OrderRequest is what a client submits. It is decided exactly once by the
// intake and never mutated afterwards.
type OrderRequest struct {
	ID            string        `json:"order_request_id"`
	ClientID      string        `json:"client_id"`
	RestaurantRef string        `json:"restaurant_key"`
	Dish          string        `json:"dish"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	Status        RequestStatus `json:"status"`
}

// Validate checks the fields the coordinator requires before deciding.
func (r OrderRequest) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("order request: missing id")
	case r.ClientID == "":
		return fmt.Errorf("order request %s: missing client_id", r.ID)
	case r.RestaurantRef == "":
		return fmt.Errorf("order request %s: missing restaurant_key", r.ID)
	case r.Dish == "":
		return fmt.Errorf("order request %s: missing dish", r.ID)
	}
	return nil
}

// OrderStatus is the delivery order state machine. Transitions only move
// forward: announced -> assigned -> completed.
type OrderStatus string

const (
	OrderAnnounced OrderStatus = "announced"
	OrderAssigned  OrderStatus = "assigned"
	OrderCompleted OrderStatus = "completed"
)

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	switch s {
	case OrderAnnounced:
		return next == OrderAssigned
	case OrderAssigned:
		return next == OrderCompleted
	}
	return false
}

// DeliveryOrder is the auctioned job ("course"). Only the coordinating
// process advances its status.
type DeliveryOrder struct {
	ID            string      `json:"order_id"`
	RequestID     string      `json:"request_id"`
	RestaurantRef string      `json:"restaurant_key"`
	ClientID      string      `json:"client_id"`
	Dish          string      `json:"dish"`
	Pickup        string      `json:"pickup"`
	Dropoff       string      `json:"dropoff"`
	RewardEUR     float64     `json:"reward_eur"`
	Status        OrderStatus `json:"status"`
	CourierID     string      `json:"courier_id,omitempty"`
	ETAMinutes    int         `json:"eta_minutes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Candidature is a courier's bid on one order.
type Candidature struct {
	OrderID     string    `json:"order_id"`
	CourierID   string    `json:"courier_id"`
	ETAMinutes  int       `json:"eta_minutes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate rejects bids that cannot take part in winner selection.
func (c Candidature) Validate() error {
	switch {
	case c.OrderID == "":
		return fmt.Errorf("candidature: missing order_id")
	case c.CourierID == "":
		return fmt.Errorf("candidature for %s: missing courier_id", c.OrderID)
	case c.ETAMinutes <= 0:
		return fmt.Errorf("candidature for %s: eta_minutes must be positive, got %d", c.OrderID, c.ETAMinutes)
	}
	return nil
}

// Assignment is the auction outcome published to the winning courier.
type Assignment struct {
	OrderID    string    `json:"order_id"`
	CourierID  string    `json:"courier_id"`
	ETAMinutes int       `json:"eta_minutes"`
	AssignedAt time.Time `json:"assigned_at"`
}
