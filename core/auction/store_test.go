package auction

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// Concurrent writers and readers on the shared store: the coordinator
// records while the report path aggregates. Run with -race.
func TestMemoryOrderStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				reqID := fmt.Sprintf("req-%d-%d", w, i)
				orderID := fmt.Sprintf("order-%d-%d", w, i)
				_ = s.RecordDecision(ctx, reqID, model.RequestApproved)
				_ = s.SaveOrder(ctx, model.DeliveryOrder{
					ID: orderID, RequestID: reqID, RestaurantRef: "restaurant:1",
					RewardEUR: 5, Status: model.OrderAnnounced,
				})
				_ = s.MarkAssigned(ctx, orderID, model.Assignment{
					OrderID: orderID, CourierID: "courier-a", ETAMinutes: 6,
				})
				_ = s.MarkCompleted(ctx, orderID)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = s.Decision(fmt.Sprintf("req-0-%d", i))
				_, _ = s.Order(fmt.Sprintf("order-0-%d", i))
				_ = s.Orders()
				if _, err := s.Earnings(ctx); err != nil {
					t.Errorf("earnings: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	rep, err := s.Earnings(ctx)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if got := rep.Couriers["courier-a"].Orders; got != 200 {
		t.Fatalf("completed orders = %d, want 200", got)
	}
	if got := rep.Couriers["courier-a"].TotalEUR; got != 1000 {
		t.Fatalf("total = %v, want 1000", got)
	}
}
