// Package provenance parses provenance service flags and launches the service.
package provenance

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/provenance/internal/platform/cmd"
	server "github.com/louisbranch/provenance/internal/services/provenance/app"
	"github.com/louisbranch/provenance/internal/services/provenance/callertoken"
)

// Config holds provenance command configuration.
type Config struct {
	Port        int    `env:"PORT"         envDefault:"8095"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9095"`

	Store     string `env:"STORE"      envDefault:"sqlite"`
	DBPath    string `env:"DB_PATH"    envDefault:"data/provenance.db"`
	BadgerDir string `env:"BADGER_DIR" envDefault:"data/provenance-badger"`

	SettlementAssetID uint64   `env:"SETTLEMENT_ASSET_ID"`
	MintAllowlist     []string `env:"MINT_ALLOWLIST"      envSeparator:","`

	CallerTokenIssuer    string `env:"CALLER_TOKEN_ISSUER"`
	CallerTokenAudience  string `env:"CALLER_TOKEN_AUDIENCE"   envDefault:"provenance"`
	CallerTokenPublicKey string `env:"CALLER_TOKEN_PUBLIC_KEY"`
	TrustCallerHeader    bool   `env:"TRUST_CALLER_HEADER"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The provenance gRPC server port")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "The Prometheus metrics address (empty disables)")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "State backend: sqlite, badger or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.BadgerDir, "badger-dir", cfg.BadgerDir, "Badger data directory")
	fs.Uint64Var(&cfg.SettlementAssetID, "settlement-asset-id", cfg.SettlementAssetID, "Ledger asset used to pay for purchases (0 disables)")
	fs.BoolVar(&cfg.TrustCallerHeader, "trust-caller-header", cfg.TrustCallerHeader, "Accept the caller principal header without a token")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Request log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ServerConfig resolves keys and loggers into server wiring.
func (c Config) ServerConfig() (server.Config, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return server.Config{}, fmt.Errorf("parse log level: %w", err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		return server.Config{}, fmt.Errorf("build logger: %w", err)
	}

	cfg := server.Config{
		Addr:              fmt.Sprintf(":%d", c.Port),
		MetricsAddr:       c.MetricsAddr,
		Store:             c.Store,
		DBPath:            c.DBPath,
		BadgerDir:         c.BadgerDir,
		SettlementAssetID: c.SettlementAssetID,
		MintAllowlist:     trimAll(c.MintAllowlist),
		TrustCallerHeader: c.TrustCallerHeader,
		Logger:            logger,
	}
	if strings.TrimSpace(c.CallerTokenPublicKey) != "" {
		key, err := callertoken.DecodePublicKey(c.CallerTokenPublicKey)
		if err != nil {
			return server.Config{}, err
		}
		cfg.CallerToken = callertoken.VerifierConfig{
			Issuer:   strings.TrimSpace(c.CallerTokenIssuer),
			Audience: strings.TrimSpace(c.CallerTokenAudience),
			Key:      key,
		}
	}
	return cfg, nil
}

// Run starts the provenance gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.ServerConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProvenance, func(ctx context.Context) error {
		srv, err := server.New(serverCfg)
		if err != nil {
			return err
		}
		return srv.Serve(ctx)
	})
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
