package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	t.Run("defaults when no config file exists", func(t *testing.T) {
		loader, err := NewConfigLoader(filepath.Join(t.TempDir(), "missing.yml"))
		require.NoError(t, err)

		// viper reports a missing explicit file as a read error
		_, err = loader.Load()
		assert.Error(t, err)
	})

	t.Run("loads defaults from an empty config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		cfg, err := loader.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORS.AllowedOrigins)
		assert.Equal(t, "claude-3-5-haiku-latest", cfg.Anthropic.Model)
		assert.Equal(t, "kobun.db", cfg.Store.Path)
		assert.Equal(t, "http://localhost:8080", cfg.Client.ServerURL)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
		t.Setenv("ANTHROPIC_MODEL", "claude-3-7-sonnet-latest")
		t.Setenv("IDENTITY_BASE_URL", "https://identity.example.com")

		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		cfg, err := loader.Load()
		require.NoError(t, err)

		assert.Equal(t, "sk-ant-test", cfg.Anthropic.APIKey)
		assert.Equal(t, "claude-3-7-sonnet-latest", cfg.Anthropic.Model)
		assert.Equal(t, "https://identity.example.com", cfg.Identity.BaseURL)
	})

	t.Run("rejects an invalid server port", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o644))

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		_, err = loader.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestConfig_RequireServerSecrets(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		wantMissing []string
	}{
		{
			name: "all secrets present",
			cfg: Config{
				Identity:  IdentityConfig{BaseURL: "https://identity.example.com", PublicKey: "anon-key"},
				Anthropic: AnthropicConfig{APIKey: "sk-ant"},
				Vision:    VisionConfig{APIKey: "vision-key"},
				Stripe:    StripeConfig{SecretKey: "sk_live", PriceID: "price_123"},
			},
		},
		{
			name:    "everything missing",
			cfg:     Config{},
			wantErr: true,
			wantMissing: []string{
				"IDENTITY_BASE_URL", "IDENTITY_PUBLIC_KEY", "ANTHROPIC_API_KEY",
				"GOOGLE_VISION_API_KEY", "STRIPE_SECRET_KEY", "STRIPE_PRICE_ID",
			},
		},
		{
			name: "single missing key is named",
			cfg: Config{
				Identity:  IdentityConfig{BaseURL: "https://identity.example.com", PublicKey: "anon-key"},
				Anthropic: AnthropicConfig{APIKey: "sk-ant"},
				Vision:    VisionConfig{APIKey: "vision-key"},
				Stripe:    StripeConfig{SecretKey: "  ", PriceID: "price_123"},
			},
			wantErr:     true,
			wantMissing: []string{"STRIPE_SECRET_KEY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireServerSecrets()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigurationMissing)
			for _, key := range tt.wantMissing {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestConfig_RequireClient(t *testing.T) {
	cfg := Config{Client: ClientConfig{ServerURL: "http://localhost:8080"}}
	assert.NoError(t, cfg.RequireClient())

	cfg.Client.ServerURL = ""
	err := cfg.RequireClient()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}
