package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 384, cfg.Embeddings.Dimension)
	assert.Equal(t, 5, cfg.Connections.TopK)
	assert.Equal(t, 0.4, cfg.Connections.MinSimilarity)
	assert.Equal(t, 3, cfg.Connections.NarrateTopK)
	assert.Equal(t, 0.5, cfg.Connections.NarrateMinSimilarity)
	assert.NotNil(t, cfg.Providers)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultProvider = "openai"
	cfg.Providers["openai"] = ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini"}
	cfg.Embeddings.BaseURL = "http://localhost:9000/v1"
	cfg.Connections.TopK = 7

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", loaded.DefaultProvider)
	assert.Equal(t, "gpt-4o-mini", loaded.Providers["openai"].Model)
	assert.Equal(t, "http://localhost:9000/v1", loaded.Embeddings.BaseURL)
	assert.Equal(t, 7, loaded.Connections.TopK)
}

func TestProviderFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultProvider = "anthropic"
	cfg.Providers["anthropic"] = ProviderConfig{APIKey: "key", Model: "model"}

	fc, err := cfg.ProviderFor("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", fc.Provider)
	assert.Equal(t, "key", fc.APIKey)

	// An unknown name is a distinct failure from having no provider at
	// all; callers downgrade only on ErrNoProvider.
	_, err = cfg.ProviderFor("missing")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoProvider)
	assert.Contains(t, err.Error(), "missing")

	empty := DefaultConfig()
	_, err = empty.ProviderFor("")
	assert.ErrorIs(t, err, ErrNoProvider)
}
