// Package sqlite provides a SQLite-backed state.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sqlitemigrate "github.com/louisbranch/provenance/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// scanBatch bounds how many rows Scan reads before handing them to the
// callback, so callbacks never run while a cursor is open.
const scanBatch = 128

var _ state.Store = (*Store)(nil)

// Store persists state in a single kv_entries table. Writers in one process
// are serialized by writeMu; other processes are told apart by SQLITE_BUSY.
type Store struct {
	sqlDB   *sql.DB
	writeMu sync.Mutex

	closeMu sync.RWMutex
	closed  bool
}

// Open opens a SQLite state store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle. Closing twice is a no-op.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sqlDB.Close()
}

// View runs fn inside a read transaction so every read sees one snapshot.
func (s *Store) View(ctx context.Context, fn func(state.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return state.ErrClosed
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin view: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()
	return fn(&reader{ctx: ctx, tx: tx})
}

// Update runs fn inside a write transaction and commits when fn returns nil.
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

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	current, err := readVersion(ctx, tx)
	if err != nil {
		return err
	}
	w := &writer{reader: reader{ctx: ctx, tx: tx}, version: current + 1}
	if err := fn(w); err != nil {
		return err
	}
	if !w.dirty {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "UPDATE state_meta SET value = ? WHERE name = 'version'", int64(w.version)); err != nil {
		return fmt.Errorf("advance version: %w", classify(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", classify(err))
	}
	return nil
}

// Version returns the committed write count.
func (s *Store) Version(ctx context.Context) (uint64, error) {
	var version uint64
	err := s.View(ctx, func(r state.Reader) error {
		var err error
		version, err = readVersion(ctx, r.(*reader).tx)
		return err
	})
	return version, err
}

func readVersion(ctx context.Context, tx *sql.Tx) (uint64, error) {
	var version int64
	if err := tx.QueryRowContext(ctx, "SELECT value FROM state_meta WHERE name = 'version'").Scan(&version); err != nil {
		return 0, fmt.Errorf("read version: %w", classify(err))
	}
	return uint64(version), nil
}

type reader struct {
	ctx context.Context
	tx  *sql.Tx
}

func (r *reader) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := r.tx.QueryRowContext(r.ctx, "SELECT value FROM kv_entries WHERE key = ?", []byte(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, classify(err))
	}
	return value, true, nil
}

type entry struct {
	key   string
	value []byte
}

func (r *reader) Scan(prefix, start string, fn state.ScanFunc) error {
	from := max(prefix, start)
	inclusive := true
	for {
		batch, err := r.scanBatch(prefix, from, inclusive)
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
		from = batch[len(batch)-1].key
		inclusive = false
	}
}

func (r *reader) scanBatch(prefix, from string, inclusive bool) ([]entry, error) {
	query := "SELECT key, value FROM kv_entries WHERE key > ?"
	if inclusive {
		query = "SELECT key, value FROM kv_entries WHERE key >= ?"
	}
	args := []any{[]byte(from)}
	if end, ok := prefixEnd(prefix); ok {
		query += " AND key < ?"
		args = append(args, end)
	}
	query += " ORDER BY key LIMIT ?"
	args = append(args, scanBatch)

	rows, err := r.tx.QueryContext(r.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, classify(err))
	}
	defer rows.Close()

	var batch []entry
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", prefix, err)
		}
		batch = append(batch, entry{key: string(key), value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s rows: %w", prefix, classify(err))
	}
	return batch, nil
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix string) ([]byte, bool) {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1], true
		}
	}
	return nil, false
}

type writer struct {
	reader
	version uint64
	dirty   bool
}

func (w *writer) Put(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := w.tx.ExecContext(w.ctx, `INSERT INTO kv_entries (key, value, version) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version`,
		[]byte(key), value, int64(w.version))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, classify(err))
	}
	w.dirty = true
	return nil
}

func (w *writer) Delete(key string) error {
	if _, err := w.tx.ExecContext(w.ctx, "DELETE FROM kv_entries WHERE key = ?", []byte(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, classify(err))
	}
	w.dirty = true
	return nil
}

// classify maps lock contention from another process to state.ErrConflict.
func classify(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return errors.Join(state.ErrConflict, err)
		}
	}
	return err
}
