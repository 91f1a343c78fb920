package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	provenancev1 "github.com/louisbranch/provenance/api/gen/go/provenance/v1"
	platformgrpc "github.com/louisbranch/provenance/internal/platform/grpc"
	"github.com/louisbranch/provenance/internal/platform/timeouts"
	"github.com/louisbranch/provenance/internal/services/provenance/api/grpc/interceptors"
)

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Errorf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Error("timeout waiting for server shutdown")
		}
	})
	return srv
}

func dial(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial provenance server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServerRoundTripOverSQLite(t *testing.T) {
	srv := startServer(t, Config{
		Addr:              "127.0.0.1:0",
		MetricsAddr:       "127.0.0.1:0",
		Store:             StoreSQLite,
		DBPath:            t.TempDir() + "/nested/provenance.db",
		TrustCallerHeader: true,
	})
	conn := dial(t, srv.Addr())

	healthCtx, cancel := context.WithTimeout(context.Background(), timeouts.HealthWait)
	defer cancel()
	if err := platformgrpc.WaitForHealth(healthCtx, conn, provenancev1.ServiceName, nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}

	client := provenancev1.NewProvenanceServiceClient(conn)
	ctx := metadata.AppendToOutgoingContext(context.Background(), interceptors.PrincipalHeader, "alice")
	minted, err := client.MintAsset(ctx, &provenancev1.MintAssetRequest{Metadata: "Watch", Location: "Geneva"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	got, err := client.GetAsset(context.Background(), &provenancev1.GetAssetRequest{AssetId: minted.AssetId})
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if got.Asset.Owner != "alice" || got.Asset.Location != "Geneva" {
		t.Fatalf("asset = %+v", got.Asset)
	}

	resp, err := http.Get("http://" + srv.MetricsAddr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, want := range []string{"provenance_grpc_requests_total", "provenance_state_version 1"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestServerWithoutMetrics(t *testing.T) {
	srv := startServer(t, Config{Addr: "127.0.0.1:0", Store: StoreMemory})
	if srv.MetricsAddr() != "" {
		t.Fatalf("metrics addr = %q, want disabled", srv.MetricsAddr())
	}
	client := provenancev1.NewProvenanceServiceClient(dial(t, srv.Addr()))
	version, err := client.GetVersion(context.Background(), &provenancev1.GetVersionRequest{})
	if err != nil || version.Version != 0 {
		t.Fatalf("version = %+v, %v", version, err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown store", cfg: Config{Addr: "127.0.0.1:0", Store: "etcd"}},
		{name: "blank allowlist entry", cfg: Config{Addr: "127.0.0.1:0", Store: StoreMemory, MintAllowlist: []string{" "}}},
		{name: "bad listen address", cfg: Config{Addr: "nope:-1", Store: StoreMemory}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMintPolicyFromAllowlist(t *testing.T) {
	policy, err := mintPolicy([]string{"curator"})
	if err != nil {
		t.Fatalf("mint policy: %v", err)
	}
	if !policy.AllowMint("curator") || policy.AllowMint("mallory") {
		t.Fatal("allowlist policy mismatch")
	}
	open, err := mintPolicy(nil)
	if err != nil || !open.AllowMint("anyone") {
		t.Fatalf("open policy = %v", err)
	}
}
