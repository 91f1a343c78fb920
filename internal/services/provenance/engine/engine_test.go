package engine

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/ledger"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/market"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/registry"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/badger"
	"github.com/louisbranch/provenance/internal/services/provenance/state/memory"
	"github.com/louisbranch/provenance/internal/services/provenance/state/sqlite"
)

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	eng, err := New(memory.New(), opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func mint(t *testing.T, eng *Engine, caller principal.Principal, metadata string) asset.ID {
	t.Helper()
	id, err := eng.MintAsset(context.Background(), caller, metadata, "vault")
	if err != nil {
		t.Fatalf("mint %s: %v", metadata, err)
	}
	return id
}

func version(t *testing.T, eng *Engine) uint64 {
	t.Helper()
	v, err := eng.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	return v
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	for want := asset.ID(1); want <= 3; want++ {
		if got := mint(t, eng, "alice", "item"); got != want {
			t.Fatalf("mint id = %d, want %d", got, want)
		}
	}
	for id := asset.ID(1); id <= 3; id++ {
		valid, err := eng.IsValidAssetID(ctx, id)
		if err != nil || !valid {
			t.Fatalf("IsValidAssetID(%d) = %v, %v", id, valid, err)
		}
	}
	for _, id := range []asset.ID{0, 4} {
		valid, err := eng.IsValidAssetID(ctx, id)
		if err != nil || valid {
			t.Fatalf("IsValidAssetID(%d) = %v, %v, want false", id, valid, err)
		}
	}
	owner, ok, err := eng.GetOwner(ctx, 2)
	if err != nil || !ok || owner != "alice" {
		t.Fatalf("GetOwner = %q, %v, %v", owner, ok, err)
	}
	if _, ok, _ := eng.GetOwner(ctx, 9); ok {
		t.Fatal("expected no owner for unminted id")
	}
}

func TestMintRejectsBlankCaller(t *testing.T) {
	eng := newEngine(t, Options{})
	_, err := eng.MintAsset(context.Background(), "", "item", "vault")
	if !errors.Is(err, principal.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if v := version(t, eng); v != 0 {
		t.Fatalf("version = %d, want 0", v)
	}
}

func TestMintPolicy(t *testing.T) {
	eng := newEngine(t, Options{MintPolicy: registry.Allowlist("curator")})
	if _, err := eng.MintAsset(context.Background(), "mallory", "fake", ""); !errors.Is(err, registry.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if id := mint(t, eng, "curator", "real"); id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
}

func TestUpdateLocationOwnerOnly(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")

	if err := eng.UpdateLocation(ctx, "alice", id, "Paris"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if err := eng.UpdateLocation(ctx, "bob", id, "Rome"); !errors.Is(err, registry.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if err := eng.UpdateLocation(ctx, "alice", 42, "Rome"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	got, _, err := eng.GetAsset(ctx, id)
	if err != nil || got.Location != "Paris" {
		t.Fatalf("asset = %+v, %v", got, err)
	}
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")

	if err := eng.TransferOwnership(ctx, "bob", id, "bob"); !errors.Is(err, registry.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if err := eng.ListAsset(ctx, "alice", id, 10); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := eng.TransferOwnership(ctx, "alice", id, "bob"); !errors.Is(err, registry.ErrAlreadyListed) {
		t.Fatalf("err = %v, want ErrAlreadyListed", err)
	}
	if err := eng.UnlistAsset(ctx, "alice", id); err != nil {
		t.Fatalf("unlist: %v", err)
	}
	if err := eng.TransferOwnership(ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, _, _ := eng.GetOwner(ctx, id)
	if owner != "bob" {
		t.Fatalf("owner = %q, want bob", owner)
	}
}

func TestListTwiceFails(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")
	if err := eng.ListAsset(ctx, "alice", id, 1000); err != nil {
		t.Fatalf("list: %v", err)
	}
	before := version(t, eng)
	if err := eng.ListAsset(ctx, "alice", id, 2000); !errors.Is(err, registry.ErrAlreadyListed) {
		t.Fatalf("err = %v, want ErrAlreadyListed", err)
	}
	if after := version(t, eng); after != before {
		t.Fatalf("version moved from %d to %d on failure", before, after)
	}
}

func TestBuyPaymentBoundary(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")
	if err := eng.ListAsset(ctx, "alice", id, 1000); err != nil {
		t.Fatalf("list: %v", err)
	}

	_, err := eng.BuyAsset(ctx, "bob", id, 999)
	if !errors.Is(err, market.ErrInsufficientPayment) {
		t.Fatalf("err = %v, want ErrInsufficientPayment", err)
	}
	sale, err := eng.BuyAsset(ctx, "bob", id, 1000)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if sale.Seller != "alice" || sale.Price != 1000 {
		t.Fatalf("sale = %+v", sale)
	}
	got, _, _ := eng.GetAsset(ctx, id)
	if got.Owner != "bob" || got.Listed() {
		t.Fatalf("asset after sale = %+v", got)
	}
	if _, err := eng.BuyAsset(ctx, "carol", id, 1000); !errors.Is(err, registry.ErrNotListed) {
		t.Fatalf("err = %v, want ErrNotListed", err)
	}
}

func TestBuyOwnAsset(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")
	if err := eng.ListAsset(ctx, "alice", id, 5); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := eng.BuyAsset(ctx, "alice", id, 5); !errors.Is(err, market.ErrSelfPurchase) {
		t.Fatalf("err = %v, want ErrSelfPurchase", err)
	}
}

func TestUnlistErrors(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")

	if err := eng.UnlistAsset(ctx, "alice", id); !errors.Is(err, registry.ErrNotListed) {
		t.Fatalf("err = %v, want ErrNotListed", err)
	}
	if err := eng.UnlistAsset(ctx, "alice", 77); !errors.Is(err, registry.ErrNotListed) {
		t.Fatalf("unknown asset err = %v, want ErrNotListed", err)
	}
	if err := eng.ListAsset(ctx, "alice", id, 5); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := eng.UnlistAsset(ctx, "bob", id); !errors.Is(err, registry.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
}

// ledgeredEngine mints the currency as asset 1 and gives bob 1500 units.
func ledgeredEngine(t *testing.T, store state.Store) *Engine {
	t.Helper()
	ctx := context.Background()
	eng, err := New(store, Options{Settlement: market.Settlement{AssetID: 1}})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	currency := mint(t, eng, "bank", "credits")
	if err := eng.IssueUnits(ctx, "bank", currency, 10_000); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := eng.Transfer(ctx, "bank", "bob", currency, 1500); err != nil {
		t.Fatalf("fund bob: %v", err)
	}
	return eng
}

func TestLedgeredBuyMovesFunds(t *testing.T) {
	ctx := context.Background()
	eng := ledgeredEngine(t, memory.New())
	item := mint(t, eng, "alice", "watch")
	if err := eng.ListAsset(ctx, "alice", item, 1000); err != nil {
		t.Fatalf("list: %v", err)
	}
	// Overpaying still charges the listing price.
	if _, err := eng.BuyAsset(ctx, "bob", item, 1200); err != nil {
		t.Fatalf("buy: %v", err)
	}
	assertBalance(t, eng, "bob", 1, 500)
	assertBalance(t, eng, "alice", 1, 1000)
	supply, err := eng.GetTotalSupply(ctx, 1)
	if err != nil || supply != 10_000 {
		t.Fatalf("supply = %d, %v", supply, err)
	}
}

func TestLedgeredBuyIsAtomicAcrossBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) state.Store{
		"memory": func(*testing.T) state.Store { return memory.New() },
		"sqlite": func(t *testing.T) state.Store {
			store, err := sqlite.Open(t.TempDir() + "/state.db")
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return store
		},
		"badger": func(t *testing.T) state.Store {
			store, err := badger.OpenInMemory()
			if err != nil {
				t.Fatalf("open badger: %v", err)
			}
			return store
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			t.Cleanup(func() { _ = store.Close() })
			eng := ledgeredEngine(t, store)
			item := mint(t, eng, "alice", "watch")
			if err := eng.ListAsset(ctx, "alice", item, 2000); err != nil {
				t.Fatalf("list: %v", err)
			}
			before := version(t, eng)

			_, err := eng.BuyAsset(ctx, "bob", item, 2000)
			if !errors.Is(err, ledger.ErrInsufficientBalance) {
				t.Fatalf("err = %v, want ErrInsufficientBalance", err)
			}
			got, _, _ := eng.GetAsset(ctx, item)
			if got.Owner != "alice" || !got.Listed() {
				t.Fatalf("asset changed after failed buy: %+v", got)
			}
			assertBalance(t, eng, "bob", 1, 1500)
			if after := version(t, eng); after != before {
				t.Fatalf("version moved from %d to %d", before, after)
			}
		})
	}
}

func TestApproveAndTransferFrom(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "shares")
	if err := eng.IssueUnits(ctx, "alice", id, 100); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := eng.Approve(ctx, "alice", "broker", id, 30); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := eng.TransferFrom(ctx, "broker", "alice", "bob", id, 20); err != nil {
		t.Fatalf("transfer-from: %v", err)
	}
	allowance, err := eng.GetAllowance(ctx, "alice", "broker", id)
	if err != nil || allowance != 10 {
		t.Fatalf("allowance = %d, %v, want 10", allowance, err)
	}
	assertBalance(t, eng, "alice", id, 80)
	assertBalance(t, eng, "bob", id, 20)

	if err := eng.TransferFrom(ctx, "broker", "alice", "bob", id, 11); !errors.Is(err, ledger.ErrInsufficientAllowance) {
		t.Fatalf("err = %v, want ErrInsufficientAllowance", err)
	}
	if err := eng.Approve(ctx, "alice", "broker", id, 500); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if err := eng.TransferFrom(ctx, "broker", "alice", "bob", id, 81); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if err := eng.TransferFrom(ctx, "broker", "alice", "bob", 99, 1); !errors.Is(err, ledger.ErrInvalidAssetID) {
		t.Fatalf("err = %v, want ErrInvalidAssetID", err)
	}

	holders, err := eng.Holders(ctx, id)
	if err != nil {
		t.Fatalf("holders: %v", err)
	}
	var total uint64
	for _, h := range holders {
		total += h.Amount
	}
	if total != 100 {
		t.Fatalf("sum of balances = %d, want 100", total)
	}
}

func TestIssueUnitsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "shares")
	if err := eng.IssueUnits(ctx, "bob", id, 1); !errors.Is(err, registry.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if err := eng.IssueUnits(ctx, "alice", 5, 1); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := eng.IssueUnits(ctx, "alice", id, ^uint64(0)); err != nil {
		t.Fatalf("issue max: %v", err)
	}
	if err := eng.IssueUnits(ctx, "alice", id, 1); !errors.Is(err, ledger.ErrAmountOverflow) {
		t.Fatalf("err = %v, want ErrAmountOverflow", err)
	}
}

func TestListAssetsFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	for i := range 5 {
		owner := principal.Principal("alice")
		if i%2 == 1 {
			owner = "bob"
		}
		mint(t, eng, owner, "item")
	}
	if err := eng.ListAsset(ctx, "alice", 3, 700); err != nil {
		t.Fatalf("list: %v", err)
	}

	page, err := eng.ListAssets(ctx, ListAssetsRequest{Filter: `owner = "alice"`, PageSize: 2})
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if ids(page.Assets) != "1,3" || page.NextPageToken == "" {
		t.Fatalf("first page = %s token %q", ids(page.Assets), page.NextPageToken)
	}
	page, err = eng.ListAssets(ctx, ListAssetsRequest{Filter: `owner = "alice"`, PageSize: 2, PageToken: page.NextPageToken})
	if err != nil {
		t.Fatalf("list assets page 2: %v", err)
	}
	if ids(page.Assets) != "5" || page.NextPageToken != "" {
		t.Fatalf("second page = %s token %q", ids(page.Assets), page.NextPageToken)
	}

	page, err = eng.ListAssets(ctx, ListAssetsRequest{Filter: `listed = true AND price >= 700`})
	if err != nil {
		t.Fatalf("list listed: %v", err)
	}
	if ids(page.Assets) != "3" {
		t.Fatalf("listed = %s, want 3", ids(page.Assets))
	}

	_, err = eng.ListAssets(ctx, ListAssetsRequest{Filter: `color = "red"`})
	if !apperrors.HasCode(err, apperrors.CodeFilterInvalid) {
		t.Fatalf("err = %v, want FILTER_INVALID", err)
	}
	_, err = eng.ListAssets(ctx, ListAssetsRequest{PageToken: "%%%"})
	if !apperrors.HasCode(err, apperrors.CodePageTokenInvalid) {
		t.Fatalf("err = %v, want PAGE_TOKEN_INVALID", err)
	}
}

func ids(assets []asset.Asset) string {
	out := ""
	for i, a := range assets {
		if i > 0 {
			out += ","
		}
		out += a.ID.String()
	}
	return out
}

func TestJournalRecordsCommittedMutations(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")
	if err := eng.ListAsset(ctx, "alice", id, 10); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := eng.BuyAsset(ctx, "alice", id, 10); err == nil {
		t.Fatal("expected self purchase error")
	}
	if _, err := eng.BuyAsset(ctx, "bob", id, 10); err != nil {
		t.Fatalf("buy: %v", err)
	}

	events, err := eng.ListEvents(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	want := []journal.Type{journal.TypeAssetMinted, journal.TypeAssetListed, journal.TypeAssetSold}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, evt := range events {
		if evt.Type != want[i] || evt.Seq != uint64(i+1) {
			t.Fatalf("event %d = %s seq %d", i, evt.Type, evt.Seq)
		}
	}
	if events[2].From != "alice" || events[2].To != "bob" {
		t.Fatalf("sold event = %+v", events[2])
	}

	count, err := eng.VerifyJournal(ctx)
	if err != nil || count != 3 {
		t.Fatalf("verify = %d, %v", count, err)
	}
	later, err := eng.ListEvents(ctx, 2, 10)
	if err != nil || len(later) != 1 || later[0].Seq != 3 {
		t.Fatalf("events after 2 = %+v, %v", later, err)
	}
}

func TestVersionAdvancesOnlyOnCommit(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, Options{})
	id := mint(t, eng, "alice", "watch")
	v := version(t, eng)
	if _, err := eng.GetBalance(ctx, "alice", id); err != nil {
		t.Fatalf("balance: %v", err)
	}
	if _, err := eng.ListAssets(ctx, ListAssetsRequest{}); err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if got := version(t, eng); got != v {
		t.Fatalf("reads moved version from %d to %d", v, got)
	}
	if err := eng.UpdateLocation(ctx, "alice", id, "Lyon"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := version(t, eng); got != v+1 {
		t.Fatalf("version = %d, want %d", got, v+1)
	}
}

func TestOperationsAreTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	eng := newEngine(t, Options{Tracer: provider.Tracer("test")})
	id := mint(t, eng, "alice", "watch")
	_ = eng.UpdateLocation(context.Background(), "bob", id, "x")

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "provenance.MintAsset" {
		t.Fatalf("span name = %q", spans[0].Name())
	}
	if spans[1].Status().Description != string(apperrors.CodeNotAuthorized) {
		t.Fatalf("status = %+v", spans[1].Status())
	}
}

func assertBalance(t *testing.T, eng *Engine, p principal.Principal, id asset.ID, want uint64) {
	t.Helper()
	got, err := eng.GetBalance(context.Background(), p, id)
	if err != nil {
		t.Fatalf("balance %s: %v", p, err)
	}
	if got != want {
		t.Fatalf("balance %s = %d, want %d", p, got, want)
	}
}
