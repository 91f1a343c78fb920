// Package memory provides an in-process state.Store for tests and embedding.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

var _ state.Store = (*Store)(nil)

// Store keeps committed state in a map guarded by a RWMutex. Update holds the
// write lock for the whole callback, so writers never interleave.
type Store struct {
	mu      sync.RWMutex
	data    map[string][]byte
	version uint64
	closed  bool
}

// New returns an empty store.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

// View runs fn against committed state.
func (s *Store) View(ctx context.Context, fn func(state.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return state.ErrClosed
	}
	return fn(snapshot{data: s.data})
}

// Update runs fn against a staged overlay and applies it on success.
func (s *Store) Update(ctx context.Context, fn func(state.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return state.ErrClosed
	}

	txn := &txn{base: s.data, staged: map[string]write{}}
	if err := fn(txn); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(txn.staged) == 0 {
		return nil
	}
	for key, w := range txn.staged {
		if w.deleted {
			delete(s.data, key)
			continue
		}
		s.data[key] = w.value
	}
	s.version++
	return nil
}

// Version returns the committed write count.
func (s *Store) Version(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, state.ErrClosed
	}
	return s.version, nil
}

// Close releases the data. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}

type snapshot struct {
	data map[string][]byte
}

func (r snapshot) Get(key string) ([]byte, bool, error) {
	value, ok := r.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(value), true, nil
}

func (r snapshot) Scan(prefix, start string, fn state.ScanFunc) error {
	return scan(r.data, nil, prefix, start, fn)
}

type write struct {
	value   []byte
	deleted bool
}

type txn struct {
	base   map[string][]byte
	staged map[string]write
}

func (t *txn) Get(key string) ([]byte, bool, error) {
	if w, ok := t.staged[key]; ok {
		if w.deleted {
			return nil, false, nil
		}
		return slices.Clone(w.value), true, nil
	}
	return snapshot{data: t.base}.Get(key)
}

func (t *txn) Put(key string, value []byte) error {
	t.staged[key] = write{value: slices.Clone(value)}
	return nil
}

func (t *txn) Delete(key string) error {
	t.staged[key] = write{deleted: true}
	return nil
}

func (t *txn) Scan(prefix, start string, fn state.ScanFunc) error {
	return scan(t.base, t.staged, prefix, start, fn)
}

func scan(base map[string][]byte, staged map[string]write, prefix, start string, fn state.ScanFunc) error {
	from := max(prefix, start)
	seen := map[string]struct{}{}
	var keys []string
	collect := func(key string) {
		if !strings.HasPrefix(key, prefix) || key < from {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for key := range base {
		collect(key)
	}
	for key := range staged {
		collect(key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value, ok := base[key]
		if w, isStaged := staged[key]; isStaged {
			if w.deleted {
				continue
			}
			value, ok = w.value, true
		}
		if !ok {
			continue
		}
		more, err := fn(key, slices.Clone(value))
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}
