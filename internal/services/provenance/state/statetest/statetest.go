// Package statetest holds the behavior suite every state.Store backend must
// pass.
package statetest

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

// Opener returns a fresh, empty store. The suite closes stores it opens
// unless a test closes them itself.
type Opener func(t *testing.T) state.Store

// Run exercises store semantics shared by all backends.
func Run(t *testing.T, open Opener) {
	t.Run("commit makes writes visible", func(t *testing.T) { testCommit(t, open(t)) })
	t.Run("staged writes are read back", func(t *testing.T) { testReadYourWrites(t, open(t)) })
	t.Run("error discards write set", func(t *testing.T) { testRollback(t, open(t)) })
	t.Run("read only update keeps version", func(t *testing.T) { testEmptyUpdate(t, open(t)) })
	t.Run("scan orders and filters", func(t *testing.T) { testScan(t, open(t)) })
	t.Run("scan merges staged writes", func(t *testing.T) { testScanStaged(t, open(t)) })
	t.Run("get returns owned copy", func(t *testing.T) { testGetCopy(t, open(t)) })
	t.Run("writers are serialized", func(t *testing.T) { testConcurrentWriters(t, open(t)) })
	t.Run("cancelled context", func(t *testing.T) { testCancelled(t, open(t)) })
	t.Run("closed store", func(t *testing.T) { testClosed(t, open(t)) })
}

func closeStore(t *testing.T, store state.Store) {
	t.Helper()
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func mustUpdate(t *testing.T, store state.Store, fn func(state.Txn) error) {
	t.Helper()
	if err := store.Update(context.Background(), fn); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func mustGet(t *testing.T, store state.Store, key string) ([]byte, bool) {
	t.Helper()
	var (
		value []byte
		found bool
	)
	err := store.View(context.Background(), func(r state.Reader) error {
		var err error
		value, found, err = r.Get(key)
		return err
	})
	if err != nil {
		t.Fatalf("view %s: %v", key, err)
	}
	return value, found
}

func mustVersion(t *testing.T, store state.Store) uint64 {
	t.Helper()
	version, err := store.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	return version
}

func testCommit(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	if got := mustVersion(t, store); got != 0 {
		t.Fatalf("initial version = %d, want 0", got)
	}
	mustUpdate(t, store, func(txn state.Txn) error {
		if err := txn.Put("a/1", []byte("one")); err != nil {
			return err
		}
		return txn.Put("a/2", []byte("two"))
	})
	if value, ok := mustGet(t, store, "a/1"); !ok || string(value) != "one" {
		t.Fatalf("a/1 = %q, %v", value, ok)
	}
	if got := mustVersion(t, store); got != 1 {
		t.Fatalf("version = %d, want 1", got)
	}

	mustUpdate(t, store, func(txn state.Txn) error {
		if err := txn.Put("a/1", []byte("uno")); err != nil {
			return err
		}
		return txn.Delete("a/2")
	})
	if value, _ := mustGet(t, store, "a/1"); string(value) != "uno" {
		t.Fatalf("a/1 = %q, want uno", value)
	}
	if _, ok := mustGet(t, store, "a/2"); ok {
		t.Fatal("expected a/2 to be deleted")
	}
	if _, ok := mustGet(t, store, "missing"); ok {
		t.Fatal("expected missing key to be absent")
	}
	if got := mustVersion(t, store); got != 2 {
		t.Fatalf("version = %d, want 2", got)
	}
}

func testReadYourWrites(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		return txn.Put("k", []byte("committed"))
	})
	mustUpdate(t, store, func(txn state.Txn) error {
		if err := txn.Put("k", []byte("staged")); err != nil {
			return err
		}
		value, ok, err := txn.Get("k")
		if err != nil {
			return err
		}
		if !ok || string(value) != "staged" {
			return fmt.Errorf("staged read = %q, %v", value, ok)
		}
		if err := txn.Delete("k"); err != nil {
			return err
		}
		if _, ok, err := txn.Get("k"); err != nil || ok {
			return fmt.Errorf("expected staged delete to hide key, ok=%v err=%v", ok, err)
		}
		return txn.Put("k", []byte("final"))
	})
	if value, _ := mustGet(t, store, "k"); string(value) != "final" {
		t.Fatalf("k = %q, want final", value)
	}
}

func testRollback(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		return txn.Put("balance", []byte("10"))
	})
	boom := errors.New("boom")
	err := store.Update(context.Background(), func(txn state.Txn) error {
		if err := txn.Put("balance", []byte("0")); err != nil {
			return err
		}
		if err := txn.Put("other", []byte("x")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if value, _ := mustGet(t, store, "balance"); string(value) != "10" {
		t.Fatalf("balance = %q, want 10", value)
	}
	if _, ok := mustGet(t, store, "other"); ok {
		t.Fatal("expected discarded key to be absent")
	}
	if got := mustVersion(t, store); got != 1 {
		t.Fatalf("version = %d, want 1", got)
	}
}

func testEmptyUpdate(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		_, _, err := txn.Get("anything")
		return err
	})
	if got := mustVersion(t, store); got != 0 {
		t.Fatalf("version = %d, want 0", got)
	}
}

func scanKeys(r state.Reader, prefix, start string, limit int) ([]string, error) {
	var keys []string
	err := r.Scan(prefix, start, func(key string, _ []byte) (bool, error) {
		keys = append(keys, key)
		return limit <= 0 || len(keys) < limit, nil
	})
	return keys, err
}

func equalKeys(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func testScan(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		for _, key := range []string{"b/03", "a/9", "b/01", "b/02", "c/01", "b"} {
			if err := txn.Put(key, []byte(key)); err != nil {
				return err
			}
		}
		return nil
	})

	tests := []struct {
		name   string
		prefix string
		start  string
		limit  int
		want   []string
	}{
		{name: "prefix", prefix: "b/", want: []string{"b/01", "b/02", "b/03"}},
		{name: "start", prefix: "b/", start: "b/02", want: []string{"b/02", "b/03"}},
		{name: "start before prefix", prefix: "b/", start: "a", want: []string{"b/01", "b/02", "b/03"}},
		{name: "limit", prefix: "b/", limit: 2, want: []string{"b/01", "b/02"}},
		{name: "empty prefix", prefix: "", want: []string{"a/9", "b", "b/01", "b/02", "b/03", "c/01"}},
		{name: "no match", prefix: "z/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.View(context.Background(), func(r state.Reader) error {
				got, err := scanKeys(r, tt.prefix, tt.start, tt.limit)
				if err != nil {
					return err
				}
				if !equalKeys(got, tt.want) {
					return fmt.Errorf("keys = %v, want %v", got, tt.want)
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func testScanStaged(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		for _, key := range []string{"e/1", "e/2", "e/3"} {
			if err := txn.Put(key, []byte("old")); err != nil {
				return err
			}
		}
		return nil
	})
	mustUpdate(t, store, func(txn state.Txn) error {
		if err := txn.Delete("e/2"); err != nil {
			return err
		}
		if err := txn.Put("e/25", []byte("new")); err != nil {
			return err
		}
		if err := txn.Put("e/3", []byte("new")); err != nil {
			return err
		}
		values := map[string]string{}
		var keys []string
		err := txn.Scan("e/", "", func(key string, value []byte) (bool, error) {
			keys = append(keys, key)
			values[key] = string(value)
			return true, nil
		})
		if err != nil {
			return err
		}
		if want := []string{"e/1", "e/25", "e/3"}; !equalKeys(keys, want) {
			return fmt.Errorf("keys = %v, want %v", keys, want)
		}
		if values["e/3"] != "new" || values["e/1"] != "old" {
			return fmt.Errorf("values = %v", values)
		}
		return nil
	})
}

func testGetCopy(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	mustUpdate(t, store, func(txn state.Txn) error {
		return txn.Put("k", []byte("abc"))
	})
	value, _ := mustGet(t, store, "k")
	value[0] = 'X'
	if again, _ := mustGet(t, store, "k"); string(again) != "abc" {
		t.Fatalf("k = %q, want abc", again)
	}
}

func testConcurrentWriters(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Update(context.Background(), func(txn state.Txn) error {
				value, _, err := txn.Get("counter")
				if err != nil {
					return err
				}
				var n uint64
				if len(value) == 8 {
					n = binary.BigEndian.Uint64(value)
				}
				return txn.Put("counter", binary.BigEndian.AppendUint64(nil, n+1))
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent update: %v", err)
		}
	}
	value, _ := mustGet(t, store, "counter")
	if got := binary.BigEndian.Uint64(value); got != writers {
		t.Fatalf("counter = %d, want %d", got, writers)
	}
	if got := mustVersion(t, store); got != writers {
		t.Fatalf("version = %d, want %d", got, writers)
	}
}

func testCancelled(t *testing.T, store state.Store) {
	defer closeStore(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := store.Update(ctx, func(txn state.Txn) error {
		return txn.Put("k", []byte("v"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, ok := mustGet(t, store, "k"); ok {
		t.Fatal("expected cancelled update to write nothing")
	}
}

func testClosed(t *testing.T, store state.Store) {
	closeStore(t, store)

	err := store.Update(context.Background(), func(txn state.Txn) error { return nil })
	if !errors.Is(err, state.ErrClosed) {
		t.Fatalf("update err = %v, want %v", err, state.ErrClosed)
	}
	err = store.View(context.Background(), func(state.Reader) error { return nil })
	if !errors.Is(err, state.ErrClosed) {
		t.Fatalf("view err = %v, want %v", err, state.ErrClosed)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
