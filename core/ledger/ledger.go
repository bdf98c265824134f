// Package ledger accumulates per-courier and per-restaurant earnings.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Totals is one aggregate line: total reward and number of orders.
type Totals struct {
	TotalEUR float64
	Orders   int
}

// Report is a point-in-time snapshot of both aggregates.
type Report struct {
	Couriers    map[string]Totals
	Restaurants map[string]Totals
}

// Ledger owns the earnings aggregates. Increments are atomic with respect
// to concurrent recordings; snapshots never block recorders for long.
type Ledger struct {
	mu          sync.Mutex
	couriers    map[string]Totals
	restaurants map[string]Totals
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		couriers:    make(map[string]Totals),
		restaurants: make(map[string]Totals),
	}
}

// Record registers one completed order: the courier's and the restaurant's
// totals and order counts each grow exactly once.
func (l *Ledger) Record(courierID, restaurantRef string, rewardEUR float64) {
	l.mu.Lock()
	c := l.couriers[courierID]
	c.TotalEUR += rewardEUR
	c.Orders++
	l.couriers[courierID] = c
	r := l.restaurants[restaurantRef]
	r.TotalEUR += rewardEUR
	r.Orders++
	l.restaurants[restaurantRef] = r
	l.mu.Unlock()
}

// Total returns the courier's accumulated reward.
func (l *Ledger) Total(courierID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.couriers[courierID].TotalEUR
}

// RestaurantTotal returns the restaurant's accumulated reward.
func (l *Ledger) RestaurantTotal(restaurantRef string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.restaurants[restaurantRef].TotalEUR
}

// Report returns a deep copy of both aggregates.
func (l *Ledger) Report() Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	rep := Report{
		Couriers:    make(map[string]Totals, len(l.couriers)),
		Restaurants: make(map[string]Totals, len(l.restaurants)),
	}
	for id, t := range l.couriers {
		rep.Couriers[id] = t
	}
	for ref, t := range l.restaurants {
		rep.Restaurants[ref] = t
	}
	return rep
}

// String renders the end-of-run summary, highest earners first.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("=== Courier earnings ===\n")
	writeTotals(&b, r.Couriers)
	b.WriteString("=== Restaurant earnings ===\n")
	writeTotals(&b, r.Restaurants)
	return b.String()
}

func writeTotals(b *strings.Builder, totals map[string]Totals) {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := totals[keys[i]], totals[keys[j]]
		if ti.TotalEUR != tj.TotalEUR {
			return ti.TotalEUR > tj.TotalEUR
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, k := range keys {
		t := totals[k]
		fmt.Fprintf(b, "  %s: %.2f € (%d orders)\n", k, t.TotalEUR, t.Orders)
	}
}
