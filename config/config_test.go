package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, BackendRedis, cfg.Transport.Backend)
	require.Equal(t, "commandes", cfg.Channels.Requests)
	require.Equal(t, "annonces", cfg.Channels.Announcements)
	require.Equal(t, "candidatures", cfg.Channels.Candidatures)
	require.Equal(t, "affectations", cfg.Channels.Assignments)
	require.Equal(t, 5.0, cfg.Auction.MinRewardEUR)
	require.Equal(t, 10.0, cfg.Auction.MaxRewardEUR)
	require.Equal(t, 0.8, cfg.Auction.ApproveProbability)
	require.Equal(t, 30, cfg.Auction.CollectWindowSeconds)
	require.False(t, cfg.Auction.Fallback.Enabled)
	require.Equal(t, "fallback-001", cfg.Auction.Fallback.CourierID)
	require.Equal(t, 15, cfg.Auction.Fallback.ETAMinutes)
	require.Equal(t, 4, cfg.Courier.MinETAMinutes)
	require.Equal(t, 12, cfg.Courier.MaxETAMinutes)
	require.Equal(t, "9090", cfg.Metrics.PrometheusPort)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport:
  backend: mongo
  mongo:
    url: mongodb://db.example:27017
auction:
  min_reward_eur: 2
  max_reward_eur: 4
  collect_window_seconds: 10
  fallback:
    enabled: true
    courier_id: standby-9
channels:
  requests: orders.in
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendMongo, cfg.Transport.Backend)
	require.Equal(t, "mongodb://db.example:27017", cfg.Transport.Mongo.URL)
	require.Equal(t, 2.0, cfg.Auction.MinRewardEUR)
	require.Equal(t, 10, cfg.Auction.CollectWindowSeconds)
	require.True(t, cfg.Auction.Fallback.Enabled)
	require.Equal(t, "standby-9", cfg.Auction.Fallback.CourierID)
	require.Equal(t, "orders.in", cfg.Channels.Requests)
	// untouched sections keep their defaults
	require.Equal(t, "commandes.decisions", cfg.Channels.Decisions)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  backend: redis\n"), 0o600))
	t.Setenv("UBEREAT_TRANSPORT__BACKEND", "memory")
	t.Setenv("UBEREAT_AUCTION__AUTO_APPROVE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Transport.Backend)
	require.True(t, cfg.Auction.AutoApprove)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.Transport.Backend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("UBEREAT_TRANSPORT__BACKEND", "carrier-pigeon")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadRewardBounds(t *testing.T) {
	t.Setenv("UBEREAT_AUCTION__MIN_REWARD_EUR", "8")
	t.Setenv("UBEREAT_AUCTION__MAX_REWARD_EUR", "3")
	_, err := Load("")
	require.Error(t, err)
}
