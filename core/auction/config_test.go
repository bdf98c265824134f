package auction

import "testing"

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	if cfg.MinRewardEUR != 5 || cfg.MaxRewardEUR != 10 {
		t.Fatalf("reward bounds = [%v,%v], want [5,10]", cfg.MinRewardEUR, cfg.MaxRewardEUR)
	}
	if cfg.ApproveProbability != 0.8 || cfg.CollectWindowSeconds != 30 {
		t.Fatalf("approval/window = %v/%d", cfg.ApproveProbability, cfg.CollectWindowSeconds)
	}
	if cfg.Fallback.CourierID != "fallback-001" || cfg.Fallback.ETAMinutes != 15 {
		t.Fatalf("fallback = %+v", cfg.Fallback)
	}
}

func TestConfigDefaultsEachRewardBoundIndependently(t *testing.T) {
	onlyMax := Config{MaxRewardEUR: 8}
	onlyMax.SetDefaults()
	if err := onlyMax.Validate(); err != nil {
		t.Fatalf("max-only config rejected: %v", err)
	}
	if onlyMax.MinRewardEUR != 5 || onlyMax.MaxRewardEUR != 8 {
		t.Fatalf("bounds = [%v,%v], want [5,8]", onlyMax.MinRewardEUR, onlyMax.MaxRewardEUR)
	}

	onlyMin := Config{MinRewardEUR: 20}
	onlyMin.SetDefaults()
	if err := onlyMin.Validate(); err != nil {
		t.Fatalf("min-only config rejected: %v", err)
	}
	if onlyMin.MaxRewardEUR != 20 {
		t.Fatalf("max = %v, want pinned to the configured min", onlyMin.MaxRewardEUR)
	}
}

func TestConfigValidateRejectsBadBounds(t *testing.T) {
	bad := []Config{
		{MinRewardEUR: -1, MaxRewardEUR: 5, ApproveProbability: 0.8, CollectWindowSeconds: 30},
		{MinRewardEUR: 8, MaxRewardEUR: 3, ApproveProbability: 0.8, CollectWindowSeconds: 30},
		{MinRewardEUR: 5, MaxRewardEUR: 10, ApproveProbability: 1.5, CollectWindowSeconds: 30},
		{MinRewardEUR: 5, MaxRewardEUR: 10, ApproveProbability: 0.8, CollectWindowSeconds: 0},
		{MinRewardEUR: 5, MaxRewardEUR: 10, ApproveProbability: 0.8, CollectWindowSeconds: 30,
			Fallback: FallbackConfig{Enabled: true, ETAMinutes: -1}},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d accepted: %+v", i, cfg)
		}
	}
}
