package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Guen0x/Redis-mongo-ubereat/core/auction"
	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/courier"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/mongochan"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/mqttchan"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/redischan"
)

// Backend names for TransportConfig.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMQTT   = "mqtt"
)

// TransportConfig selects and parametrizes the event channel binding.
type TransportConfig struct {
	Backend string           `json:"backend"`
	Redis   redischan.Config `json:"redis"`
	Mongo   mongochan.Config `json:"mongo"`
	MQTT    mqttchan.Config  `json:"mqtt"`
}

// SetDefaults applies the reference defaults.
func (c *TransportConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendRedis
	}
	c.Redis.SetDefaults()
	c.Mongo.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks the backend name.
func (c TransportConfig) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendMongo, BackendMQTT:
		return nil
	}
	return fmt.Errorf("transport: unknown backend %q", c.Backend)
}

// MetricsConfig defines settings for the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies the reference defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "9090"
	}
}

// Config is the immutable top-level configuration, built once at startup
// and passed to every component constructor.
type Config struct {
	Transport TransportConfig `json:"transport"`
	Channels  channel.Topics  `json:"channels"`
	Auction   auction.Config  `json:"auction"`
	Courier   courier.Config  `json:"courier"`
	Metrics   MetricsConfig   `json:"metrics"`
}

// Load reads the configuration file (yaml or json), applies environment
// overrides (UBEREAT_ prefix, __ as the key separator, e.g.
// UBEREAT_AUCTION__MIN_REWARD_EUR=5), then defaults and validation. A
// missing file is not an error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var parser koanf.Parser
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".yaml", ".yml":
				parser = yaml.Parser()
			case ".json":
				parser = json.Parser()
			default:
				return nil, fmt.Errorf("unsupported config format: %s", ext)
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if err := k.Load(env.Provider("UBEREAT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ubereat_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Transport.SetDefaults()
	cfg.Channels.SetDefaults()
	cfg.Auction.SetDefaults()
	cfg.Courier.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Transport.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Auction.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Courier.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
