package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/Guen0x/Redis-mongo-ubereat/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordAnnouncement(coremetrics.AnnouncementEvent{
		OrderID: "order-1", RestaurantRef: "restaurant:1", RewardEUR: 5, Time: time.Now(),
	}))
	require.NoError(t, sink.RecordAssignment(coremetrics.AssignmentEvent{
		OrderID: "order-1", CourierID: "courier-a", ETAMinutes: 6, RewardEUR: 5, Bids: 2,
	}))
	require.NoError(t, sink.RecordAssignment(coremetrics.AssignmentEvent{
		OrderID: "order-2", CourierID: "fallback-001", ETAMinutes: 15, RewardEUR: 7, Fallback: true,
	}))

	require.Equal(t, 1.0, testutil.ToFloat64(sink.announcements))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.assignments.WithLabelValues("false")))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.assignments.WithLabelValues("true")))

	n, err := testutil.GatherAndCount(reg,
		"dispatch_announcements_total", "dispatch_assignments_total",
		"dispatch_reward_eur", "dispatch_eta_minutes")
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSink(reg)
	require.NoError(t, err)
	_, err = NewPromSink(reg)
	require.Error(t, err)
}
