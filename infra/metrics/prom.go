package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/Guen0x/Redis-mongo-ubereat/core/metrics"
)

// PromSink exposes auction events as Prometheus metrics.
type PromSink struct {
	announcements prometheus.Counter
	assignments   *prometheus.CounterVec
	rewards       prometheus.Histogram
	etas          prometheus.Histogram
}

// NewPromSink creates a PromSink and registers its collectors. If reg is
// nil, prometheus.DefaultRegisterer is used.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		announcements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_announcements_total",
			Help: "Job announcements recorded by the sink",
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Assignments recorded by the sink",
		}, []string{"fallback"}),
		rewards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_reward_eur",
			Help:    "Reward of assigned orders",
			Buckets: prometheus.LinearBuckets(2.5, 2.5, 8),
		}),
		etas: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_eta_minutes",
			Help:    "Winning ETA of assigned orders",
			Buckets: prometheus.LinearBuckets(2, 2, 10),
		}),
	}
	for _, c := range []prometheus.Collector{s.announcements, s.assignments, s.rewards, s.etas} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return s, nil
}

func (s *PromSink) RecordAnnouncement(coremetrics.AnnouncementEvent) error {
	s.announcements.Inc()
	return nil
}

func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(fmt.Sprintf("%t", ev.Fallback)).Inc()
	s.rewards.Observe(ev.RewardEUR)
	s.etas.Observe(float64(ev.ETAMinutes))
	return nil
}

// StartPromServer serves the default registry on /metrics. It blocks.
func StartPromServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
