package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Study.TrialsPerCondition != 10 || cfg.Study.CyclesPerTrial != 5 {
		t.Fatalf("study defaults = %d trials, %d cycles; want 10, 5",
			cfg.Study.TrialsPerCondition, cfg.Study.CyclesPerTrial)
	}
	if cfg.Study.SkipThreshold != 0.5 {
		t.Fatalf("skip threshold = %f, want 0.5", cfg.Study.SkipThreshold)
	}
	if cfg.Compare.PoolWeight != 0.33 || cfg.Compare.SentimentWeight != 0.34 {
		t.Fatalf("compare weights = %f/%f, want 0.33/0.34",
			cfg.Compare.PoolWeight, cfg.Compare.SentimentWeight)
	}
	if cfg.Heuristics.SignificanceLogDivisor != 7 {
		t.Fatalf("significance divisor = %f, want 7", cfg.Heuristics.SignificanceLogDivisor)
	}
}

func TestLoadFileValues(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	configDir := filepath.Join(home, ".burngate")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data := []byte(`api_keys:
  zauth: file-zauth
  payment_token: file-token
services:
  discovery_url: https://bazaar.example.com
study:
  trials_per_condition: 4
  budget_usdc: 2.5
heuristics:
  significance_log_divisor: 9
`)
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ZauthAPIKey != "file-zauth" || cfg.PaymentToken != "file-token" {
		t.Fatalf("file keys not loaded: %q %q", cfg.ZauthAPIKey, cfg.PaymentToken)
	}
	if cfg.Services.DiscoveryURL != "https://bazaar.example.com" {
		t.Fatalf("discovery url = %q", cfg.Services.DiscoveryURL)
	}
	if cfg.Study.TrialsPerCondition != 4 {
		t.Fatalf("trials = %d, want 4", cfg.Study.TrialsPerCondition)
	}
	if cfg.Study.BudgetUsdc != 2.5 {
		t.Fatalf("budget = %f, want 2.5", cfg.Study.BudgetUsdc)
	}
	// Unset file values still get defaults.
	if cfg.Study.CyclesPerTrial != 5 {
		t.Fatalf("cycles = %d, want default 5", cfg.Study.CyclesPerTrial)
	}
	if cfg.Heuristics.SignificanceLogDivisor != 9 {
		t.Fatalf("significance divisor = %f, want 9", cfg.Heuristics.SignificanceLogDivisor)
	}
}

func TestEnvKeysWinOverFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)

	configDir := filepath.Join(home, ".burngate")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data := []byte("api_keys:\n  zauth: file-zauth\n  anthropic: file-ant\n")
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearKeyEnv(t)
	t.Setenv("ZAUTH_API_KEY", "env-zauth")
	t.Setenv("ANTHROPIC_API_KEY", "env-ant")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ZauthAPIKey != "env-zauth" {
		t.Fatalf("zauth key = %q, want env-zauth", cfg.ZauthAPIKey)
	}
	if cfg.AnthropicAPIKey != "env-ant" {
		t.Fatalf("anthropic key = %q, want env-ant", cfg.AnthropicAPIKey)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	configDir := filepath.Join(home, ".burngate")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("study: [not a map"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearKeyEnv(t)

	if _, err := LoadFromFile(filepath.Join(home, "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestHasNarrator(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "k"}
	if !cfg.HasNarrator("openai") {
		t.Fatalf("openai narrator should be available")
	}
	if cfg.HasNarrator("anthropic") || cfg.HasNarrator("google") || cfg.HasNarrator("bogus") {
		t.Fatalf("unconfigured narrators should be unavailable")
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ZAUTH_API_KEY", "X402_PAYMENT_TOKEN", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
	}
}

func setHomeEnv(t *testing.T, home string) {
	t.Helper()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
}
