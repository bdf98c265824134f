package app

import (
	"context"
	"fmt"

	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/auction"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/core/ledger"
	coremetrics "github.com/Guen0x/Redis-mongo-ubereat/core/metrics"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/metrics"
)

// Service is the coordinator process: it owns the backend, the auction
// coordinator and the metrics sinks.
type Service struct {
	Coordinator *auction.Coordinator
	backend     *Backend
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = coremetrics.NewMultiSink(sinks...)
	}

	coord, err := auction.NewCoordinator(
		cfg.Auction,
		backend.Channel,
		cfg.Channels,
		backend.Orders,
		directory.New(backend.Restaurants),
		ledger.New(),
		sink,
		logger.New("coordinator"),
		nil,
	)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("coordinator: %w", err)
	}

	return &Service{
		Coordinator: coord,
		backend:     backend,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run processes order requests until ctx is done, then flushes the
// earnings report to stdout.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	err := s.Coordinator.Run(ctx)
	fmt.Println()
	fmt.Print(s.Coordinator.Ledger().Report())
	return err
}

// Close releases the backend connection.
func (s *Service) Close() error {
	return s.backend.Close()
}
