package config

import (
	"errors"
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfigurationMissing is returned when a required configuration value
// is absent. The wrapped message names the environment variable to set.
var ErrConfigurationMissing = errors.New("configuration missing")

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Stripe    StripeConfig    `mapstructure:"stripe"`
	Store     StoreConfig     `mapstructure:"store"`
	Client    ClientConfig    `mapstructure:"client"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IdentityConfig points at the identity platform that owns user records
// and entitlements (a GoTrue/PostgREST style deployment).
type IdentityConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"omitempty,url"`
	PublicKey string `mapstructure:"public_key"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type VisionConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	PriceID   string `mapstructure:"price_id"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ClientConfig configures the kobun CLI as an API consumer.
type ClientConfig struct {
	ServerURL   string `mapstructure:"server_url" validate:"omitempty,url"`
	AccessToken string `mapstructure:"access_token"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kobun")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("store.path", "kobun.db")
	v.SetDefault("client.server_url", "http://localhost:8080")

	// Secrets are bound to environment variables only, never read from the config file.
	bindings := map[string]string{
		"identity.base_url":   "IDENTITY_BASE_URL",
		"identity.public_key": "IDENTITY_PUBLIC_KEY",
		"anthropic.api_key":   "ANTHROPIC_API_KEY",
		"anthropic.model":     "ANTHROPIC_MODEL",
		"vision.api_key":      "GOOGLE_VISION_API_KEY",
		"stripe.secret_key":   "STRIPE_SECRET_KEY",
		"stripe.price_id":     "STRIPE_PRICE_ID",
		"client.access_token": "KOBUN_ACCESS_TOKEN",
		"client.server_url":   "KOBUN_SERVER_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// RequireServerSecrets verifies every credential the API server needs.
// Each absent value fails fast with ErrConfigurationMissing naming the
// environment variable, instead of silently defaulting at request time.
func (cfg *Config) RequireServerSecrets() error {
	required := []struct {
		value string
		env   string
	}{
		{cfg.Identity.BaseURL, "IDENTITY_BASE_URL"},
		{cfg.Identity.PublicKey, "IDENTITY_PUBLIC_KEY"},
		{cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY"},
		{cfg.Vision.APIKey, "GOOGLE_VISION_API_KEY"},
		{cfg.Stripe.SecretKey, "STRIPE_SECRET_KEY"},
		{cfg.Stripe.PriceID, "STRIPE_PRICE_ID"},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}

// RequireClient verifies the CLI has a server to talk to.
func (cfg *Config) RequireClient() error {
	if strings.TrimSpace(cfg.Client.ServerURL) == "" {
		return fmt.Errorf("%w: KOBUN_SERVER_URL", ErrConfigurationMissing)
	}
	return nil
}
