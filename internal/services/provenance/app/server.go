// Package server wires the provenance runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	provenancev1 "github.com/louisbranch/provenance/api/gen/go/provenance/v1"
	platformgrpc "github.com/louisbranch/provenance/internal/platform/grpc"
	"github.com/louisbranch/provenance/internal/platform/timeouts"
	"github.com/louisbranch/provenance/internal/services/provenance/api/grpc/interceptors"
	provenanceservice "github.com/louisbranch/provenance/internal/services/provenance/api/grpc/provenance"
	"github.com/louisbranch/provenance/internal/services/provenance/callertoken"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/market"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/registry"
	"github.com/louisbranch/provenance/internal/services/provenance/engine"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/badger"
	"github.com/louisbranch/provenance/internal/services/provenance/state/memory"
	"github.com/louisbranch/provenance/internal/services/provenance/state/sqlite"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config holds server wiring.
type Config struct {
	// Addr is the gRPC listen address.
	Addr string
	// MetricsAddr serves /metrics. Empty disables the metrics listener.
	MetricsAddr string

	Store     string
	DBPath    string
	BadgerDir string

	// SettlementAssetID is the ledger currency for purchases; zero settles
	// ownership only.
	SettlementAssetID uint64
	// MintAllowlist restricts minting. Empty allows every caller.
	MintAllowlist []string

	// CallerToken enables bearer caller tokens when Key is set.
	CallerToken callertoken.VerifierConfig
	// TrustCallerHeader accepts the principal header as sent.
	TrustCallerHeader bool

	Logger *zap.Logger
}

// Server hosts the provenance gRPC API and its state store.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	store           state.Store
	metricsListener net.Listener
	metricsServer   *http.Server
	logger          *zap.Logger
}

// New opens the configured store and prepares the listeners.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolvers, err := callerResolvers(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := mintPolicy(cfg.MintAllowlist)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	store, err := openStore(cfg)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	eng, err := engine.New(store, engine.Options{
		MintPolicy: policy,
		Settlement: market.Settlement{AssetID: asset.ID(cfg.SettlementAssetID)},
	})
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := registerMetrics(reg, store)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			metrics.UnaryInterceptor(),
			interceptors.CallerInterceptor(resolvers...),
			interceptors.RequestLogger(logger),
		),
	)
	healthServer := health.NewServer()
	provenancev1.RegisterProvenanceServiceServer(grpcServer, provenanceservice.NewService(eng))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	platformgrpc.SetServing(healthServer, provenancev1.ServiceName)

	s := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		logger:     logger,
	}
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		metricsListener, err := net.Listen("tcp", addr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen metrics on %s: %w", addr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		s.metricsListener = metricsListener
		s.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader}
	}
	return s, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// MetricsAddr returns the metrics listener address, or "" when disabled.
func (s *Server) MetricsAddr() string {
	if s == nil || s.metricsListener == nil {
		return ""
	}
	return s.metricsListener.Addr().String()
}

// Serve runs the gRPC and metrics servers until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("provenance server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()
	if s.metricsServer != nil {
		log.Printf("provenance metrics listening at %v", s.metricsListener.Addr())
		go func() {
			if err := s.metricsServer.Serve(s.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("serve metrics: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		if s.metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
			if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown metrics server: %v", err)
			}
			cancel()
		}
		s.grpcServer.GracefulStop()
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.metricsServer != nil {
		_ = s.metricsServer.Close()
	}
	if s.metricsListener != nil {
		_ = s.metricsListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close provenance store: %v", err)
		}
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

func callerResolvers(cfg Config) ([]interceptors.CallerResolver, error) {
	var resolvers []interceptors.CallerResolver
	if len(cfg.CallerToken.Key) > 0 {
		if cfg.CallerToken.Issuer == "" || cfg.CallerToken.Audience == "" {
			return nil, errors.New("caller token issuer and audience are required with a public key")
		}
		resolvers = append(resolvers, interceptors.TokenResolver{Config: cfg.CallerToken})
	}
	if cfg.TrustCallerHeader {
		resolvers = append(resolvers, interceptors.HeaderResolver{})
	}
	return resolvers, nil
}

func mintPolicy(allowlist []string) (registry.MintPolicy, error) {
	if len(allowlist) == 0 {
		return registry.OpenMinting(), nil
	}
	allowed := make([]principal.Principal, 0, len(allowlist))
	for _, raw := range allowlist {
		p, err := principal.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("mint allowlist entry %q: %w", raw, err)
		}
		allowed = append(allowed, p)
	}
	return registry.Allowlist(allowed...), nil
}

func registerMetrics(reg *prometheus.Registry, store state.Store) (*interceptors.Metrics, error) {
	version := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "provenance",
		Subsystem: "state",
		Name:      "version",
		Help:      "Committed state version.",
	}, func() float64 {
		v, err := store.Version(context.Background())
		if err != nil {
			return 0
		}
		return float64(v)
	})
	if err := reg.Register(version); err != nil {
		return nil, fmt.Errorf("register state metrics: %w", err)
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return interceptors.NewMetrics(reg)
}

func openStore(cfg Config) (state.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "", StoreSQLite:
		path := cfg.DBPath
		if strings.TrimSpace(path) == "" {
			path = filepath.Join("data", "provenance.db")
		}
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open provenance sqlite store: %w", err)
		}
		return store, nil
	case StoreBadger:
		dir := cfg.BadgerDir
		if strings.TrimSpace(dir) == "" {
			dir = filepath.Join("data", "provenance-badger")
		}
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		store, err := badger.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("open provenance badger store: %w", err)
		}
		return store, nil
	case StoreMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}
