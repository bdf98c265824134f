package auction

import (
	"context"
	"sync"

	"github.com/Guen0x/Redis-mongo-ubereat/core/ledger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// OrderStore persists order state alongside the transport so the report
// command can aggregate a finished run from the backend. Implementations
// live next to the channel bindings.
type OrderStore interface {
	// RecordDecision stores the intake outcome for a request.
	RecordDecision(ctx context.Context, requestID string, status model.RequestStatus) error
	// SaveOrder stores a freshly announced order.
	SaveOrder(ctx context.Context, order model.DeliveryOrder) error
	// MarkAssigned advances the order to assigned with the winner's data.
	MarkAssigned(ctx context.Context, orderID string, a model.Assignment) error
	// MarkCompleted advances the order to completed.
	MarkCompleted(ctx context.Context, orderID string) error
	// Earnings aggregates completed orders into a ledger report.
	Earnings(ctx context.Context) (ledger.Report, error)
}

// MemoryOrderStore keeps order state in process, for tests and the
// in-process binding. The coordinator writes it while the report path
// reads it from other goroutines, so access is mutex-guarded.
type MemoryOrderStore struct {
	mu        sync.Mutex
	decisions map[string]model.RequestStatus
	orders    map[string]model.DeliveryOrder
}

// NewMemoryOrderStore creates an empty store.
func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		decisions: make(map[string]model.RequestStatus),
		orders:    make(map[string]model.DeliveryOrder),
	}
}

func (s *MemoryOrderStore) RecordDecision(_ context.Context, requestID string, status model.RequestStatus) error {
	s.mu.Lock()
	s.decisions[requestID] = status
	s.mu.Unlock()
	return nil
}

// Decision returns the recorded intake outcome, if any.
func (s *MemoryOrderStore) Decision(requestID string) (model.RequestStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.decisions[requestID]
	return st, ok
}

func (s *MemoryOrderStore) SaveOrder(_ context.Context, order model.DeliveryOrder) error {
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()
	return nil
}

// Order returns the stored order, if any.
func (s *MemoryOrderStore) Order(orderID string) (model.DeliveryOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	return o, ok
}

// Orders returns a snapshot of every stored order.
func (s *MemoryOrderStore) Orders() []model.DeliveryOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DeliveryOrder, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out
}

func (s *MemoryOrderStore) MarkAssigned(_ context.Context, orderID string, a model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil
	}
	o.Status = model.OrderAssigned
	o.CourierID = a.CourierID
	o.ETAMinutes = a.ETAMinutes
	s.orders[orderID] = o
	return nil
}

func (s *MemoryOrderStore) MarkCompleted(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil
	}
	o.Status = model.OrderCompleted
	s.orders[orderID] = o
	return nil
}

func (s *MemoryOrderStore) Earnings(_ context.Context) (ledger.Report, error) {
	l := ledger.New()
	s.mu.Lock()
	for _, o := range s.orders {
		if o.Status != model.OrderCompleted {
			continue
		}
		l.Record(o.CourierID, o.RestaurantRef, o.RewardEUR)
	}
	s.mu.Unlock()
	return l.Report(), nil
}
