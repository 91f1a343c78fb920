// Package badger provides a BadgerDB-backed state.Store.
package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

const (
	// metaPrefix sorts before every printable state key and is hidden from Scan.
	metaPrefix = "\x00meta/"
	versionKey = metaPrefix + "version"
	scanBatch  = 128
)

var _ state.Store = (*Store)(nil)

// Store keeps state in a Badger database. Writers are serialized by writeMu,
// so Badger's optimistic conflict detection only fires across processes.
type Store struct {
	db      *badgerdb.DB
	writeMu sync.Mutex

	closeMu sync.RWMutex
	closed  bool
}

// Open opens or creates a Badger store in dir.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("badger directory is required")
	}
	return open(badgerdb.DefaultOptions(dir))
}

// OpenInMemory opens a Badger store that never touches disk.
func OpenInMemory() (*Store, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true))
}

func open(opts badgerdb.Options) (*Store, error) {
	db, err := badgerdb.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// View runs fn inside a read-only Badger transaction.
func (s *Store) View(ctx context.Context, fn func(state.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return state.ErrClosed
	}
	return s.db.View(func(txn *badgerdb.Txn) error {
		return fn(&reader{txn: txn})
	})
}

// Update runs fn inside a read-write Badger transaction.
func (s *Store) Update(ctx context.Context, fn func(state.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return state.ErrClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	w := &writer{reader: reader{txn: txn}}
	if err := fn(w); err != nil {
		return err
	}
	if !w.dirty {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := readVersion(txn)
	if err != nil {
		return err
	}
	if err := txn.Set([]byte(versionKey), binary.BigEndian.AppendUint64(nil, current+1)); err != nil {
		return fmt.Errorf("advance version: %w", classify(err))
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", classify(err))
	}
	return nil
}

// Version returns the committed write count.
func (s *Store) Version(ctx context.Context) (uint64, error) {
	var version uint64
	err := s.View(ctx, func(r state.Reader) error {
		var err error
		version, err = readVersion(r.(*reader).txn)
		return err
	})
	return version, err
}

func readVersion(txn *badgerdb.Txn) (uint64, error) {
	item, err := txn.Get([]byte(versionKey))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return 0, fmt.Errorf("read version value: %w", err)
	}
	if len(value) != 8 {
		return 0, fmt.Errorf("read version: malformed value of %d bytes", len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

type reader struct {
	txn *badgerdb.Txn
}

func (r *reader) Get(key string) ([]byte, bool, error) {
	item, err := r.txn.Get([]byte(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, fmt.Errorf("get %s value: %w", key, err)
	}
	return value, true, nil
}

type entry struct {
	key   string
	value []byte
}

// Scan collects rows in batches and closes the iterator before calling fn,
// since a read-write transaction allows only one live iterator.
func (r *reader) Scan(prefix, start string, fn state.ScanFunc) error {
	from := []byte(max(prefix, start))
	skipFirst := false
	for {
		batch, err := r.scanBatch([]byte(prefix), from, skipFirst)
		if err != nil {
			return err
		}
		for _, e := range batch {
			more, err := fn(e.key, e.value)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		if len(batch) < scanBatch {
			return nil
		}
		from = []byte(batch[len(batch)-1].key)
		skipFirst = true
	}
}

func (r *reader) scanBatch(prefix, from []byte, skipFirst bool) ([]entry, error) {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	it := r.txn.NewIterator(opts)
	defer it.Close()

	var batch []entry
	for it.Seek(from); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := string(item.KeyCopy(nil))
		if skipFirst && key == string(from) {
			continue
		}
		if strings.HasPrefix(key, metaPrefix) {
			continue
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("scan %s value: %w", key, err)
		}
		batch = append(batch, entry{key: key, value: value})
		if len(batch) == scanBatch {
			break
		}
	}
	return batch, nil
}

type writer struct {
	reader
	dirty bool
}

func (w *writer) Put(key string, value []byte) error {
	if strings.HasPrefix(key, metaPrefix) {
		return fmt.Errorf("put %s: reserved key", key)
	}
	if err := w.txn.Set([]byte(key), append([]byte(nil), value...)); err != nil {
		return fmt.Errorf("put %s: %w", key, classify(err))
	}
	w.dirty = true
	return nil
}

func (w *writer) Delete(key string) error {
	if err := w.txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, classify(err))
	}
	w.dirty = true
	return nil
}

func classify(err error) error {
	if errors.Is(err, badgerdb.ErrConflict) {
		return errors.Join(state.ErrConflict, err)
	}
	return err
}
