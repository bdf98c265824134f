package auction

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	announcementsTotal prometheus.Counter
	candidaturesTotal  *prometheus.CounterVec
	assignmentsTotal   *prometheus.CounterVec
	bidPoolSize        prometheus.Histogram
	publishFailure     prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Histogram, prometheus.Counter) {
	ann := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_announcements_total",
			Help: "Number of job announcements published",
		},
	)
	cand := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_candidatures_total",
			Help: "Number of candidatures observed during collection windows",
		},
		[]string{"result"},
	)
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_assignments_total",
			Help: "Number of auctions closed, by outcome",
		},
		[]string{"outcome"},
	)
	pool := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auction_bid_pool_size",
			Help:    "Candidatures retained per auction at window close",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_publish_failure_total",
			Help: "Number of failed channel publish operations",
		},
	)
	return ann, cand, asn, pool, fail
}

func init() {
	announcementsTotal, candidaturesTotal, assignmentsTotal, bidPoolSize, publishFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers auction metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(announcementsTotal, candidaturesTotal, assignmentsTotal, bidPoolSize, publishFailure)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	announcementsTotal, candidaturesTotal, assignmentsTotal, bidPoolSize, publishFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
