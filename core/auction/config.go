package auction

import "fmt"

// FallbackConfig controls what happens when an auction closes with zero
// bids. The toggle applies uniformly, whatever the channel binding.
type FallbackConfig struct {
	// Enabled assigns the order to CourierID when no bids arrive.
	// Disabled leaves the order announced, unassigned.
	Enabled    bool   `json:"enabled"`
	CourierID  string `json:"courier_id"`
	ETAMinutes int    `json:"eta_minutes"`
}

// Config drives the coordinator.
type Config struct {
	// MinRewardEUR and MaxRewardEUR bound the uniform reward draw.
	MinRewardEUR float64 `json:"min_reward_eur"`
	MaxRewardEUR float64 `json:"max_reward_eur"`
	// AutoApprove approves every valid request. When false each request
	// passes a Bernoulli trial with ApproveProbability.
	AutoApprove        bool    `json:"auto_approve"`
	ApproveProbability float64 `json:"approve_probability"`
	// CollectWindowSeconds bounds bid collection per auction.
	CollectWindowSeconds int            `json:"collect_window_seconds"`
	Fallback             FallbackConfig `json:"fallback"`
}

// SetDefaults applies the reference defaults.
func (c *Config) SetDefaults() {
	if c.MinRewardEUR == 0 {
		c.MinRewardEUR = 5.0
	}
	if c.MaxRewardEUR == 0 {
		c.MaxRewardEUR = 10.0
		// a configured min above the default ceiling pins the range
		if c.MaxRewardEUR < c.MinRewardEUR {
			c.MaxRewardEUR = c.MinRewardEUR
		}
	}
	if c.ApproveProbability == 0 {
		c.ApproveProbability = 0.8
	}
	if c.CollectWindowSeconds == 0 {
		c.CollectWindowSeconds = 30
	}
	if c.Fallback.CourierID == "" {
		c.Fallback.CourierID = "fallback-001"
	}
	if c.Fallback.ETAMinutes == 0 {
		c.Fallback.ETAMinutes = 15
	}
}

// Validate checks the reward bounds and window.
func (c Config) Validate() error {
	if c.MinRewardEUR <= 0 {
		return fmt.Errorf("auction: min_reward_eur must be positive, got %v", c.MinRewardEUR)
	}
	if c.MaxRewardEUR < c.MinRewardEUR {
		return fmt.Errorf("auction: max_reward_eur %v below min_reward_eur %v", c.MaxRewardEUR, c.MinRewardEUR)
	}
	if c.ApproveProbability < 0 || c.ApproveProbability > 1 {
		return fmt.Errorf("auction: approve_probability must be in [0,1], got %v", c.ApproveProbability)
	}
	if c.CollectWindowSeconds <= 0 {
		return fmt.Errorf("auction: collect_window_seconds must be positive, got %d", c.CollectWindowSeconds)
	}
	if c.Fallback.Enabled && c.Fallback.ETAMinutes <= 0 {
		return fmt.Errorf("auction: fallback eta_minutes must be positive, got %d", c.Fallback.ETAMinutes)
	}
	return nil
}
