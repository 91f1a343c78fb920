package badger

import (
	"context"
	"testing"

	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/statetest"
)

func TestOpenRequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty directory error")
	}
}

func TestStoreInMemory(t *testing.T) {
	t.Parallel()

	statetest.Run(t, func(t *testing.T) state.Store {
		store, err := OpenInMemory()
		if err != nil {
			t.Fatalf("open in-memory store: %v", err)
		}
		return store
	})
}

func TestStoreOnDisk(t *testing.T) {
	t.Parallel()

	statetest.Run(t, func(t *testing.T) state.Store {
		store, err := Open(t.TempDir())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		return store
	})
}

func TestVersionSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for range 3 {
		err := store.Update(context.Background(), func(txn state.Txn) error {
			return txn.Put("ledger/supply/1", []byte{1})
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	version, err := reopened.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 3 {
		t.Fatalf("version = %d, want 3", version)
	}
}

func TestPutRejectsReservedKey(t *testing.T) {
	t.Parallel()

	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer store.Close()

	err = store.Update(context.Background(), func(txn state.Txn) error {
		return txn.Put(versionKey, []byte{0})
	})
	if err == nil {
		t.Fatal("expected reserved key error")
	}
}
