// Package state defines the versioned key-value contract the provenance core
// runs on.
//
// Every public operation of the core executes inside a single Update. The
// callback sees its own staged writes, and those writes become visible to
// other readers only if the callback returns nil. Any returned error discards
// the whole write set.
package state

import (
	"context"
	"errors"
)

var (
	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("state store is closed")
	// ErrConflict indicates a concurrent writer won and the update was not
	// applied. Callers may retry.
	ErrConflict = errors.New("state write conflict")
)

// ScanFunc receives one key/value pair in ascending key order. Returning
// false stops the scan.
type ScanFunc func(key string, value []byte) (bool, error)

// Reader reads committed or staged state.
type Reader interface {
	// Get returns the value stored at key. The returned slice is owned by the
	// caller.
	Get(key string) ([]byte, bool, error)
	// Scan visits keys that start with prefix and sort at or after start, in
	// ascending order. An empty start begins at the prefix.
	Scan(prefix, start string, fn ScanFunc) error
}

// Txn is a staged read-write view used inside Update.
type Txn interface {
	Reader
	Put(key string, value []byte) error
	Delete(key string) error
}

// Store is a versioned, transactional key-value store.
type Store interface {
	// View runs fn against a read-only snapshot.
	View(ctx context.Context, fn func(Reader) error) error
	// Update runs fn against a staged transaction and commits it only when fn
	// returns nil. Writers are serialized. A commit that staged at least one
	// write advances the version by one.
	Update(ctx context.Context, fn func(Txn) error) error
	// Version returns the number of committed write transactions.
	Version(ctx context.Context) (uint64, error)
	Close() error
}
