package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the credentials for one LLM provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// EmbeddingConfig points at an OpenAI-compatible embeddings endpoint.
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key,omitempty"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// DigestConfig controls the daily digest.
type DigestConfig struct {
	Hour int `yaml:"hour"`
}

// Config is the per-library configuration stored under .synapse/config.yaml.
type Config struct {
	Vault           string                    `yaml:"vault,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	Embeddings      EmbeddingConfig           `yaml:"embeddings"`
	Connections     ConnectionConfig          `yaml:"connections"`
	Digest          DigestConfig              `yaml:"digest"`
}

func DefaultConfig() *Config {
	return &Config{
		Providers: make(map[string]ProviderConfig),
		Embeddings: EmbeddingConfig{
			BaseURL:   "http://localhost:8080/v1",
			Model:     "all-MiniLM-L6-v2",
			Dimension: 384,
		},
		Connections: DefaultConnectionConfig(),
		Digest:      DigestConfig{Hour: 21},
	}
}

// LoadConfig reads the config file, returning defaults when it does not
// exist yet.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Embeddings.Dimension <= 0 {
		cfg.Embeddings.Dimension = 384
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// ProviderFor resolves the fantasy configuration for a provider name, falling
// back to the default provider when name is empty.
func (c *Config) ProviderFor(name string) (FantasyConfig, error) {
	if name == "" {
		name = c.DefaultProvider
	}
	if name == "" {
		return FantasyConfig{}, ErrNoProvider
	}

	pc, ok := c.Providers[name]
	if !ok {
		return FantasyConfig{}, fmt.Errorf("unknown provider: %s", name)
	}

	return FantasyConfig{
		Provider: name,
		APIKey:   pc.APIKey,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	}, nil
}
