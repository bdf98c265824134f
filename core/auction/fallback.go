package auction

import (
	"time"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// FallbackPolicy decides the outcome of an auction that closed with zero
// bids. The chosen policy is uniform across channel bindings.
type FallbackPolicy interface {
	// Resolve returns the substitute assignment, or false to leave the
	// order announced and unassigned.
	Resolve(order model.DeliveryOrder, now time.Time) (model.Assignment, bool)
}

// NoFallback leaves bid-less orders unassigned.
type NoFallback struct{}

func (NoFallback) Resolve(model.DeliveryOrder, time.Time) (model.Assignment, bool) {
	return model.Assignment{}, false
}

// CourierFallback assigns bid-less orders to a well-known standby courier
// with a fixed ETA.
type CourierFallback struct {
	CourierID  string
	ETAMinutes int
}

func (f CourierFallback) Resolve(order model.DeliveryOrder, now time.Time) (model.Assignment, bool) {
	return model.Assignment{
		OrderID:    order.ID,
		CourierID:  f.CourierID,
		ETAMinutes: f.ETAMinutes,
		AssignedAt: now,
	}, true
}

// FallbackFromConfig builds the policy for the configuration toggle.
func FallbackFromConfig(cfg FallbackConfig) FallbackPolicy {
	if !cfg.Enabled {
		return NoFallback{}
	}
	return CourierFallback{CourierID: cfg.CourierID, ETAMinutes: cfg.ETAMinutes}
}
