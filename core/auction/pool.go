package auction

import (
	"fmt"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// bidPool collects the candidatures of one auction. Bids for other orders
// observed on the shared channel and duplicate bids from the same courier
// are rejected with a typed error so the coordinator can log the reason.
// First write wins per (order, courier) pair.
type bidPool struct {
	orderID string
	seen    map[string]struct{}
	bids    []model.Candidature
}

func newBidPool(orderID string) *bidPool {
	return &bidPool{orderID: orderID, seen: make(map[string]struct{})}
}

func (p *bidPool) add(c model.Candidature) error {
	if c.OrderID != p.orderID {
		return fmt.Errorf("%w: got %s, collecting for %s", ErrStaleCandidature, c.OrderID, p.orderID)
	}
	if _, dup := p.seen[c.CourierID]; dup {
		return fmt.Errorf("%w: courier %s already bid on %s", ErrDuplicateCandidature, c.CourierID, p.orderID)
	}
	p.seen[c.CourierID] = struct{}{}
	p.bids = append(p.bids, c)
	return nil
}

func (p *bidPool) all() []model.Candidature { return p.bids }

func (p *bidPool) size() int { return len(p.bids) }
