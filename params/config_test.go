package params

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Market.CapitalAsset != "capital" {
		t.Errorf("capital asset = %q, want capital", cfg.Market.CapitalAsset)
	}
	if cfg.Market.StepInterval != 500*time.Millisecond {
		t.Errorf("step interval = %v, want 500ms", cfg.Market.StepInterval)
	}
	if cfg.Node.APIAddr != ":8080" {
		t.Errorf("api addr = %q, want :8080", cfg.Node.APIAddr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CAPITAL_ASSET", "gold")
	t.Setenv("STEP_INTERVAL_MS", "250")
	t.Setenv("FEEDER_SEED", "7")
	t.Setenv("API_ADDR", ":9090")

	cfg := LoadFromEnv("")

	if cfg.Market.CapitalAsset != "gold" {
		t.Errorf("capital asset = %q, want gold", cfg.Market.CapitalAsset)
	}
	if cfg.Market.StepInterval != 250*time.Millisecond {
		t.Errorf("step interval = %v, want 250ms", cfg.Market.StepInterval)
	}
	if cfg.Market.FeederSeed != 7 {
		t.Errorf("feeder seed = %d, want 7", cfg.Market.FeederSeed)
	}
	if cfg.Node.APIAddr != ":9090" {
		t.Errorf("api addr = %q, want :9090", cfg.Node.APIAddr)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("STEP_INTERVAL_MS", "fast")

	cfg := LoadFromEnv("")
	if cfg.Market.StepInterval != Default().Market.StepInterval {
		t.Errorf("invalid STEP_INTERVAL_MS should keep the default, got %v", cfg.Market.StepInterval)
	}
}
