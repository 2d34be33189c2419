package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/awesomesauce"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/httptransport"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/postgres"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/secrets"
	"github.com/kevin07696/awesomesauce-gateway/internal/config"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	pkghttp "github.com/kevin07696/awesomesauce-gateway/pkg/http"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds everything a subcommand needs
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	gateway   *awesomesauce.Gateway
	transport *httptransport.Transport
	pool      *pgxpool.Pool
}

// newApp loads configuration and wires the gateway with its transport,
// credentials and optional audit trail
func newApp(ctx context.Context) (*app, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}

	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}

	logger := initLogger(cfg.Logger)

	creds, err := loadCredentials(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.transport = httptransport.New(transportConfig(cfg.Gateway), logger)

	var opts []awesomesauce.Option
	if cfg.Database.URL != "" {
		a.pool, err = initDatabase(ctx, cfg.Database, logger)
		if err != nil {
			a.close()
			return nil, err
		}
		opts = append(opts, awesomesauce.WithAuditRepository(postgres.NewAuditRepository(a.pool)))
	}

	gatewayCfg := awesomesauce.DefaultConfig("")
	gatewayCfg.TestURL = cfg.Gateway.TestURL
	gatewayCfg.LiveURL = cfg.Gateway.LiveURL
	gatewayCfg.TestMode = cfg.Gateway.TestMode
	gatewayCfg.Credentials = creds

	a.gateway, err = awesomesauce.NewGateway(gatewayCfg, a.transport, logger, opts...)
	if err != nil {
		a.close()
		return nil, err
	}

	logger.Debug("Gateway initialized",
		zap.Bool("test_mode", gatewayCfg.TestMode),
		zap.String("base_url", gatewayCfg.BaseURL()),
		zap.Bool("audit", a.pool != nil),
	)

	return a, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Sync()
}

// initLogger initializes the zap logger
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.IsProduction() {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := zapCfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// initDatabase opens the audit database and makes sure the table exists
func initDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, postgres.PoolConfig{URL: cfg.URL, MaxConns: cfg.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	if err := postgres.EnsureSchema(ctx, postgres.NewDBExecutor(pool)); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Audit database connected", zap.Int32("max_conns", pool.Config().MaxConns))
	return pool, nil
}

// loadCredentials returns the configured login and password, or reads them
// from the configured secret manager
func loadCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Credentials, error) {
	var (
		sm  ports.SecretManagerAdapter
		err error
	)

	switch cfg.Secrets.Provider {
	case config.SecretsProviderLocal:
		sm = secrets.NewLocalSecretManager(cfg.Secrets.LocalDir, logger)
	case config.SecretsProviderAWS:
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.AWSRegion)
		awsCfg.Endpoint = cfg.Secrets.AWSEndpoint
		sm, err = secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
	case config.SecretsProviderVault:
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddress)
		vaultCfg.Token = cfg.Secrets.VaultToken
		if cfg.Secrets.VaultMount != "" {
			vaultCfg.MountPath = cfg.Secrets.VaultMount
		}
		sm, err = secrets.NewVaultAdapter(ctx, vaultCfg, logger)
	default:
		return domain.Credentials{Login: cfg.Gateway.Login, Password: cfg.Gateway.Password}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to initialize %s secret manager: %w", cfg.Secrets.Provider, err)
	}

	return secrets.LoadCredentials(ctx, sm, cfg.Secrets.Path)
}

func transportConfig(cfg config.GatewayConfig) httptransport.Config {
	tc := httptransport.DefaultConfig()
	tc.Timeout = cfg.Timeout
	tc.RequestsPerSecond = cfg.RateLimit
	tc.Burst = cfg.RateBurst
	tc.Breaker.Enabled = cfg.BreakerEnabled
	tc.Breaker.ConsecutiveFailures = cfg.BreakerMaxFailures
	tc.Breaker.OpenTimeout = cfg.BreakerTimeout
	tc.Client = pkghttp.GatewayClientConfig()
	return tc
}

// printResult writes the result as indented JSON
func printResult(w io.Writer, result *domain.GatewayResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
