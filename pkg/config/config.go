// Package config loads burngate configuration from ~/.burngate/config.yaml
// and the environment. Environment variables win over file values for
// credentials; experiment knobs live in the file only.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/burngate/pkg/normalize"
)

// Config holds the resolved application configuration.
type Config struct {
	ZauthAPIKey     string
	PaymentToken    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string

	Services   ServicesConfig
	Study      StudyConfig
	Compare    CompareConfig
	Heuristics normalize.Heuristics

	ConfigDir string
}

// FileConfig represents the structure of ~/.burngate/config.yaml.
type FileConfig struct {
	APIKeys    APIKeysConfig        `yaml:"api_keys"`
	Services   ServicesConfig       `yaml:"services"`
	Study      StudyConfig          `yaml:"study"`
	Compare    CompareConfig        `yaml:"compare"`
	Heuristics normalize.Heuristics `yaml:"heuristics"`
}

// APIKeysConfig holds credentials from file.
type APIKeysConfig struct {
	Zauth        string `yaml:"zauth"`
	PaymentToken string `yaml:"payment_token"`
	Anthropic    string `yaml:"anthropic"`
	OpenAI       string `yaml:"openai"`
	Google       string `yaml:"google"`
}

// ServicesConfig holds the base URLs of the paid services.
type ServicesConfig struct {
	DiscoveryURL string `yaml:"discovery_url"`
	ZauthURL     string `yaml:"zauth_url"`
	WalletURL    string `yaml:"wallet_url"`
}

// Load reads configuration from the default config directory and the
// environment.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return load(configDir, filepath.Join(configDir, "config.yaml"))
}

// LoadFromFile reads configuration from an explicit file path, for the
// --config flag.
func LoadFromFile(path string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(configDir, path)
}

func load(configDir, path string) (*Config, error) {
	fileConfig, err := loadFileConfig(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ZauthAPIKey:     getEnvOrDefault("ZAUTH_API_KEY", fileConfig.APIKeys.Zauth),
		PaymentToken:    getEnvOrDefault("X402_PAYMENT_TOKEN", fileConfig.APIKeys.PaymentToken),
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		Services:        fileConfig.Services,
		Study:           fileConfig.Study,
		Compare:         fileConfig.Compare,
		Heuristics:      fileConfig.Heuristics,
		ConfigDir:       configDir,
	}

	applyStudyDefaults(&cfg.Study)
	applyCompareDefaults(&cfg.Compare)
	if cfg.Heuristics == (normalize.Heuristics{}) {
		cfg.Heuristics = normalize.DefaultHeuristics()
	}
	return cfg, nil
}

// HasNarrator returns true if the API key for the given narrator backend is
// configured.
func (c *Config) HasNarrator(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	default:
		return false
	}
}

// loadFileConfig reads the config file. A missing file yields an empty
// config; a malformed one is an error, since silently dropping experiment
// knobs would change what a run measures.
func loadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".burngate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
