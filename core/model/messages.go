package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MalformedMessageError marks a payload that could not be decoded or failed
// validation. It is recoverable: the consumer logs and skips the message.
type MalformedMessageError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *MalformedMessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s message: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s message: %s", e.Kind, e.Reason)
}

func (e *MalformedMessageError) Unwrap() error { return e.Err }

func malformed(kind, reason string, err error) *MalformedMessageError {
	return &MalformedMessageError{Kind: kind, Reason: reason, Err: err}
}

// Announcement is the broadcast of a biddable job.
type Announcement struct {
	OrderID     string              `json:"order_id"`
	Pickup      string              `json:"pickup"`
	Dropoff     string              `json:"dropoff"`
	RewardEUR   float64             `json:"reward_eur"`
	Details     AnnouncementDetails `json:"details"`
	PublishedAt time.Time           `json:"published_at"`
}

// AnnouncementDetails carries auxiliary order data for display.
type AnnouncementDetails struct {
	Dish      string `json:"dish"`
	ClientID  string `json:"client_id"`
	RequestID string `json:"request_id"`
}

// Decision is the intake feedback published back to the client.
type Decision struct {
	RequestID string        `json:"order_request_id"`
	Status    RequestStatus `json:"status"`
	DecidedAt time.Time     `json:"decided_at"`
}

// DecodeOrderRequest parses and validates an order-request payload.
func DecodeOrderRequest(payload []byte) (OrderRequest, error) {
	var req OrderRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return OrderRequest{}, malformed("order-request", "invalid json", err)
	}
	if err := req.Validate(); err != nil {
		return OrderRequest{}, malformed("order-request", err.Error(), nil)
	}
	if req.Status == "" {
		req.Status = RequestPending
	}
	return req, nil
}

// DecodeAnnouncement parses an announcement payload.
func DecodeAnnouncement(payload []byte) (Announcement, error) {
	var a Announcement
	if err := json.Unmarshal(payload, &a); err != nil {
		return Announcement{}, malformed("announcement", "invalid json", err)
	}
	if a.OrderID == "" {
		return Announcement{}, malformed("announcement", "missing order_id", nil)
	}
	return a, nil
}

// DecodeCandidature parses and validates a bid payload.
func DecodeCandidature(payload []byte) (Candidature, error) {
	var c Candidature
	if err := json.Unmarshal(payload, &c); err != nil {
		return Candidature{}, malformed("candidature", "invalid json", err)
	}
	if err := c.Validate(); err != nil {
		return Candidature{}, malformed("candidature", err.Error(), nil)
	}
	return c, nil
}

// DecodeAssignment parses an assignment payload.
func DecodeAssignment(payload []byte) (Assignment, error) {
	var a Assignment
	if err := json.Unmarshal(payload, &a); err != nil {
		return Assignment{}, malformed("assignment", "invalid json", err)
	}
	if a.OrderID == "" || a.CourierID == "" {
		return Assignment{}, malformed("assignment", "missing order_id or courier_id", nil)
	}
	return a, nil
}

// DecodeDecision parses an intake decision payload.
func DecodeDecision(payload []byte) (Decision, error) {
	var d Decision
	if err := json.Unmarshal(payload, &d); err != nil {
		return Decision{}, malformed("decision", "invalid json", err)
	}
	if d.RequestID == "" {
		return Decision{}, malformed("decision", "missing order_request_id", nil)
	}
	return d, nil
}
