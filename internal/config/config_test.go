package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" {
		t.Errorf("expected yahoo default, got %q", cfg.DataSource.Provider)
	}
	if len(cfg.Pipeline.Tickers) != 2 || cfg.Pipeline.Tickers[0] != "BTC-USD" || cfg.Pipeline.Tickers[1] != "ETH-USD" {
		t.Errorf("unexpected default tickers: %v", cfg.Pipeline.Tickers)
	}
	if cfg.Pipeline.Period != "7d" || cfg.Pipeline.Interval != "1h" {
		t.Errorf("unexpected default period/interval: %s/%s", cfg.Pipeline.Period, cfg.Pipeline.Interval)
	}
	if cfg.Pipeline.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Pipeline.MaxAttempts)
	}
	if cfg.RetryDelay() != 5*time.Second {
		t.Errorf("expected 5s retry delay, got %v", cfg.RetryDelay())
	}
	if cfg.TickerPause() != 3*time.Second {
		t.Errorf("expected 3s pause, got %v", cfg.TickerPause())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: coingecko
pipeline:
  tickers: [SOL-USD]
  period: 3d
output:
  dir: /tmp/out
`)
	t.Setenv("DATA_PROVIDER", "cryptocompare")
	t.Setenv("TICKERS", "BTC-USD, ETH-USD")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "cryptocompare" {
		t.Errorf("env must override file, got %q", cfg.DataSource.Provider)
	}
	if len(cfg.Pipeline.Tickers) != 2 || cfg.Pipeline.Tickers[1] != "ETH-USD" {
		t.Errorf("unexpected tickers from env: %v", cfg.Pipeline.Tickers)
	}
	if cfg.Pipeline.Period != "3d" {
		t.Errorf("file value must survive, got %q", cfg.Pipeline.Period)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("unexpected output dir: %q", cfg.Output.Dir)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		return cfg
	}

	cfg := base()
	cfg.DataSource.Provider = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unsupported provider to fail validation")
	}

	cfg = base()
	cfg.Pipeline.Tickers = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty tickers to fail validation")
	}

	cfg = base()
	cfg.Pipeline.Tickers = []string{"BTC-USD", "  "}
	if err := cfg.Validate(); err == nil {
		t.Error("expected blank ticker to fail validation")
	}

	cfg = base()
	cfg.Pipeline.MaxAttempts = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative attempts to fail validation")
	}

	cfg = base()
	cfg.Output.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty output dir to fail validation")
	}
}
