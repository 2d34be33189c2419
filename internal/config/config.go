package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. AWESOMESAUCE_GATEWAY_LOGIN
const EnvPrefix = "AWESOMESAUCE"

// Secret providers
const (
	SecretsProviderNone  = "none"
	SecretsProviderLocal = "local"
	SecretsProviderAWS   = "aws"
	SecretsProviderVault = "vault"
)

// Config holds all application configuration
type Config struct {
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// GatewayConfig holds AwesomeSauce gateway configuration
type GatewayConfig struct {
	Login    string `mapstructure:"login"`
	Password string `mapstructure:"password"`

	TestMode bool   `mapstructure:"test_mode"`
	TestURL  string `mapstructure:"test_url"`
	LiveURL  string `mapstructure:"live_url"`

	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst int           `mapstructure:"rate_burst"`

	BreakerEnabled     bool          `mapstructure:"breaker_enabled"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `mapstructure:"level"`       // debug, info, warn, error
	Environment string `mapstructure:"environment"` // production or development
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// DatabaseConfig holds PostgreSQL configuration for the audit trail.
// An empty URL disables auditing.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// SecretsConfig selects where gateway credentials are loaded from
type SecretsConfig struct {
	Provider     string `mapstructure:"provider"`
	Path         string `mapstructure:"path"`
	LocalDir     string `mapstructure:"local_dir"`
	AWSRegion    string `mapstructure:"aws_region"`
	AWSEndpoint  string `mapstructure:"aws_endpoint"`
	VaultAddress string `mapstructure:"vault_address"`
	VaultToken   string `mapstructure:"vault_token"`
	VaultMount   string `mapstructure:"vault_mount"`
}

// Load reads configuration from defaults, an optional gateway.yaml and the environment.
// configPaths are searched for gateway.yaml before the default locations.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gateway")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/awesomesauce")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that configuration values are usable.
// Credentials are not required here since they may come from a secret manager.
func (c *Config) Validate() error {
	var errs []error

	if c.Gateway.Timeout <= 0 {
		errs = append(errs, pkgerrors.NewValidationError("gateway.timeout", "must be positive"))
	}
	if c.Gateway.RateLimit < 0 {
		errs = append(errs, pkgerrors.NewValidationError("gateway.rate_limit", "must not be negative"))
	}
	if c.Gateway.RateBurst < 0 {
		errs = append(errs, pkgerrors.NewValidationError("gateway.rate_burst", "must not be negative"))
	}
	if err := validateBaseURL("gateway.test_url", c.Gateway.TestURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateBaseURL("gateway.live_url", c.Gateway.LiveURL); err != nil {
		errs = append(errs, err)
	}
	if c.Gateway.BreakerEnabled && c.Gateway.BreakerTimeout <= 0 {
		errs = append(errs, pkgerrors.NewValidationError("gateway.breaker_timeout", "must be positive when the breaker is enabled"))
	}

	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, pkgerrors.NewValidationError("logger.level", fmt.Sprintf("unknown level %q", c.Logger.Level)))
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = append(errs, pkgerrors.NewValidationError("metrics.port", fmt.Sprintf("must be between 1 and 65535, got %d", c.Metrics.Port)))
	}

	if c.Database.MaxConns < 0 {
		errs = append(errs, pkgerrors.NewValidationError("database.max_conns", "must not be negative"))
	}

	errs = append(errs, c.Secrets.validate()...)

	return errors.Join(errs...)
}

func (s *SecretsConfig) validate() []error {
	var errs []error

	switch s.Provider {
	case SecretsProviderNone:
		return nil
	case SecretsProviderLocal:
		if s.LocalDir == "" {
			errs = append(errs, pkgerrors.NewValidationError("secrets.local_dir", "is required for the local provider"))
		}
	case SecretsProviderAWS:
		if s.AWSRegion == "" {
			errs = append(errs, pkgerrors.NewValidationError("secrets.aws_region", "is required for the aws provider"))
		}
	case SecretsProviderVault:
		if s.VaultAddress == "" {
			errs = append(errs, pkgerrors.NewValidationError("secrets.vault_address", "is required for the vault provider"))
		}
	default:
		return []error{pkgerrors.NewValidationError("secrets.provider", fmt.Sprintf("unknown provider %q", s.Provider))}
	}

	if s.Path == "" {
		errs = append(errs, pkgerrors.NewValidationError("secrets.path", "is required when a provider is set"))
	}

	return errs
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return pkgerrors.NewValidationError(field, fmt.Sprintf("must be an absolute http(s) URL, got %q", raw))
	}
	return nil
}

// IsProduction reports whether the logger runs in production mode
func (c *LoggerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	// Gateway defaults
	v.SetDefault("gateway.login", "")
	v.SetDefault("gateway.password", "")
	v.SetDefault("gateway.test_mode", true)
	v.SetDefault("gateway.test_url", "http://sandbox.asgateway.com")
	v.SetDefault("gateway.live_url", "https://prod.awesomesauce.com")
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("gateway.rate_limit", 0)
	v.SetDefault("gateway.rate_burst", 1)
	v.SetDefault("gateway.breaker_enabled", true)
	v.SetDefault("gateway.breaker_max_failures", 5)
	v.SetDefault("gateway.breaker_timeout", "30s")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.environment", "development")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)

	// Secrets defaults
	v.SetDefault("secrets.provider", SecretsProviderNone)
	v.SetDefault("secrets.path", "")
	v.SetDefault("secrets.local_dir", "")
	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.aws_endpoint", "")
	v.SetDefault("secrets.vault_address", "")
	v.SetDefault("secrets.vault_token", "")
	v.SetDefault("secrets.vault_mount", "secret")
}
