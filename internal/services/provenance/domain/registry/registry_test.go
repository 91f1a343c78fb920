package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/memory"
)

func update(t *testing.T, store state.Store, fn func(state.Txn) error) error {
	t.Helper()
	return store.Update(context.Background(), fn)
}

func mint(t *testing.T, store state.Store, reg *Registry, caller principal.Principal) asset.Asset {
	t.Helper()
	var minted asset.Asset
	err := update(t, store, func(txn state.Txn) error {
		var err error
		minted, err = reg.Mint(txn, caller, "Test Asset", "Location A")
		return err
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return minted
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	store := memory.New()
	reg := New(nil)

	for want := asset.ID(1); want <= 3; want++ {
		minted := mint(t, store, reg, "alice")
		if minted.ID != want {
			t.Fatalf("id = %d, want %d", minted.ID, want)
		}
		if minted.Owner != "alice" || minted.Listed() {
			t.Fatalf("minted = %+v", minted)
		}
	}

	err := store.View(context.Background(), func(r state.Reader) error {
		last, err := reg.LastID(r)
		if err != nil {
			return err
		}
		if last != 3 {
			t.Fatalf("last id = %d, want 3", last)
		}
		got, ok, err := reg.Get(r, 2)
		if err != nil {
			return err
		}
		if !ok || got.Metadata != "Test Asset" || got.Location != "Location A" {
			t.Fatalf("asset 2 = %+v, %v", got, ok)
		}
		if _, ok, _ := reg.Get(r, 0); ok {
			t.Fatal("expected id 0 to be absent")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMintPolicyDenial(t *testing.T) {
	store := memory.New()
	reg := New(Allowlist("minter"))

	err := update(t, store, func(txn state.Txn) error {
		_, err := reg.Mint(txn, "mallory", "fake", "nowhere")
		return err
	})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want %v", err, ErrNotAuthorized)
	}
	if minted := mint(t, store, reg, "minter"); minted.ID != 1 {
		t.Fatalf("id = %d, want 1 after denied mint", minted.ID)
	}
}

func TestUpdateLocation(t *testing.T) {
	store := memory.New()
	reg := New(nil)
	minted := mint(t, store, reg, "alice")

	tests := []struct {
		name    string
		caller  principal.Principal
		id      asset.ID
		wantErr error
	}{
		{name: "missing asset checked first", caller: "bob", id: 99, wantErr: ErrNotFound},
		{name: "non owner", caller: "bob", id: minted.ID, wantErr: ErrNotAuthorized},
		{name: "owner", caller: "alice", id: minted.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := update(t, store, func(txn state.Txn) error {
				_, err := reg.UpdateLocation(txn, tt.caller, tt.id, "Location B")
				return err
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("update location: %v", err)
			}
		})
	}

	_ = store.View(context.Background(), func(r state.Reader) error {
		got, _, _ := reg.Get(r, minted.ID)
		if got.Location != "Location B" || got.Metadata != "Test Asset" || got.Owner != "alice" {
			t.Fatalf("asset = %+v", got)
		}
		return nil
	})
}

func TestTransferOwnership(t *testing.T) {
	store := memory.New()
	reg := New(nil)
	minted := mint(t, store, reg, "alice")

	err := update(t, store, func(txn state.Txn) error {
		_, err := reg.TransferOwnership(txn, "bob", minted.ID, "bob")
		return err
	})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want %v", err, ErrNotAuthorized)
	}

	err = update(t, store, func(txn state.Txn) error {
		_, err := reg.SetListing(txn, minted.ID, &asset.Listing{Seller: "alice", Price: 5})
		return err
	})
	if err != nil {
		t.Fatalf("set listing: %v", err)
	}
	err = update(t, store, func(txn state.Txn) error {
		_, err := reg.TransferOwnership(txn, "alice", minted.ID, "bob")
		return err
	})
	if !errors.Is(err, ErrAlreadyListed) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyListed)
	}

	err = update(t, store, func(txn state.Txn) error {
		if _, err := reg.SetListing(txn, minted.ID, nil); err != nil {
			return err
		}
		moved, err := reg.TransferOwnership(txn, "alice", minted.ID, "bob")
		if err != nil {
			return err
		}
		if moved.Owner != "bob" {
			t.Fatalf("owner = %q, want bob", moved.Owner)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	err = update(t, store, func(txn state.Txn) error {
		_, err := reg.TransferOwnership(txn, "alice", 42, "bob")
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrNotFound)
	}
}

func TestSettleListingRequiresExactListing(t *testing.T) {
	store := memory.New()
	reg := New(nil)
	minted := mint(t, store, reg, "alice")
	listing := asset.Listing{Seller: "alice", Price: 1000}

	err := update(t, store, func(txn state.Txn) error {
		_, err := reg.SettleListing(txn, minted.ID, listing, "bob")
		return err
	})
	if !errors.Is(err, ErrNotListed) {
		t.Fatalf("err = %v, want %v", err, ErrNotListed)
	}

	if err := update(t, store, func(txn state.Txn) error {
		_, err := reg.SetListing(txn, minted.ID, &listing)
		return err
	}); err != nil {
		t.Fatalf("set listing: %v", err)
	}

	stale := asset.Listing{Seller: "alice", Price: 900}
	err = update(t, store, func(txn state.Txn) error {
		_, err := reg.SettleListing(txn, minted.ID, stale, "bob")
		return err
	})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want %v", err, ErrNotAuthorized)
	}

	err = update(t, store, func(txn state.Txn) error {
		settled, err := reg.SettleListing(txn, minted.ID, listing, "bob")
		if err != nil {
			return err
		}
		if settled.Owner != "bob" || settled.Listed() {
			t.Fatalf("settled = %+v", settled)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
}

func TestScanPagesInIDOrder(t *testing.T) {
	store := memory.New()
	reg := New(nil)
	for range 5 {
		mint(t, store, reg, "alice")
	}

	var ids []asset.ID
	err := store.View(context.Background(), func(r state.Reader) error {
		return reg.Scan(r, 2, func(a asset.Asset) (bool, error) {
			ids = append(ids, a.ID)
			return len(ids) < 2, nil
		})
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Fatalf("ids = %v, want [3 4]", ids)
	}
}
