// Package journal appends an ordered, hash-chained record of every committed
// mutation. Events are staged in the same transaction as the state change
// they describe, so the journal and state never diverge.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

const (
	headKey     = "journal/head"
	eventPrefix = "journal/event/"
)

// Type names an event kind.
type Type string

const (
	TypeAssetMinted          Type = "asset.minted"
	TypeAssetLocationUpdated Type = "asset.location_updated"
	TypeAssetTransferred     Type = "asset.transferred"
	TypeAssetListed          Type = "asset.listed"
	TypeAssetUnlisted        Type = "asset.unlisted"
	TypeAssetSold            Type = "asset.sold"
	TypeLedgerIssued         Type = "ledger.issued"
	TypeLedgerApproved       Type = "ledger.approved"
	TypeLedgerTransferred    Type = "ledger.transferred"
)

// ErrChainBroken indicates a stored event no longer matches its hashes.
var ErrChainBroken = errors.New("journal hash chain is broken")

// Event is one journal entry. Fields that do not apply to a type stay zero.
type Event struct {
	Seq      uint64              `cbor:"seq"`
	Type     Type                `cbor:"type"`
	AssetID  asset.ID            `cbor:"asset_id"`
	Actor    principal.Principal `cbor:"actor"`
	From     principal.Principal `cbor:"from,omitempty"`
	To       principal.Principal `cbor:"to,omitempty"`
	Amount   uint64              `cbor:"amount,omitempty"`
	Price    uint64              `cbor:"price,omitempty"`
	Location string              `cbor:"location,omitempty"`
	Metadata string              `cbor:"metadata,omitempty"`

	// Hash covers the fields above. ChainHash links Hash to the previous
	// event's ChainHash.
	Hash      string `cbor:"hash"`
	PrevHash  string `cbor:"prev_hash,omitempty"`
	ChainHash string `cbor:"chain_hash"`
}

type head struct {
	Seq       uint64 `cbor:"seq"`
	ChainHash string `cbor:"chain_hash"`
}

// EventKey returns the state key of the event at seq.
func EventKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", eventPrefix, seq)
}

// ContentHash hashes the deterministic encoding of evt without its hash
// fields.
func ContentHash(evt Event) (string, error) {
	evt.Hash, evt.PrevHash, evt.ChainHash = "", "", ""
	data, err := state.Marshal(evt)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ChainHash links an event hash to its predecessor.
func ChainHash(prevChainHash, hash string) string {
	sum := sha256.Sum256([]byte(prevChainHash + ":" + hash))
	return hex.EncodeToString(sum[:])
}

// Append assigns the next sequence number, computes hashes and stages evt.
func Append(txn state.Txn, evt Event) (Event, error) {
	current, _, err := state.GetRecord[head](txn, headKey)
	if err != nil {
		return Event{}, fmt.Errorf("read journal head: %w", err)
	}
	evt.Seq = current.Seq + 1
	hash, err := ContentHash(evt)
	if err != nil {
		return Event{}, fmt.Errorf("hash event: %w", err)
	}
	evt.Hash = hash
	evt.PrevHash = current.ChainHash
	evt.ChainHash = ChainHash(current.ChainHash, hash)

	if err := state.PutRecord(txn, EventKey(evt.Seq), evt); err != nil {
		return Event{}, fmt.Errorf("write event %d: %w", evt.Seq, err)
	}
	if err := state.PutRecord(txn, headKey, head{Seq: evt.Seq, ChainHash: evt.ChainHash}); err != nil {
		return Event{}, fmt.Errorf("write journal head: %w", err)
	}
	return evt, nil
}

// List returns up to limit events with Seq > afterSeq in order.
func List(r state.Reader, afterSeq uint64, limit int) ([]Event, error) {
	if limit <= 0 || afterSeq == ^uint64(0) {
		return nil, nil
	}
	events := make([]Event, 0, min(limit, 64))
	err := state.ScanRecords(r, eventPrefix, EventKey(afterSeq+1), func(_ string, evt Event) (bool, error) {
		events = append(events, evt)
		return len(events) < limit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Head returns the last sequence number and chain hash.
func Head(r state.Reader) (uint64, string, error) {
	current, _, err := state.GetRecord[head](r, headKey)
	if err != nil {
		return 0, "", fmt.Errorf("read journal head: %w", err)
	}
	return current.Seq, current.ChainHash, nil
}

// Verify recomputes every hash from the first event and checks the head.
// It returns the number of verified events.
func Verify(r state.Reader) (uint64, error) {
	var (
		count uint64
		prev  string
	)
	err := state.ScanRecords(r, eventPrefix, "", func(key string, evt Event) (bool, error) {
		count++
		if evt.Seq != count {
			return false, fmt.Errorf("%w: %s has seq %d, want %d", ErrChainBroken, key, evt.Seq, count)
		}
		hash, err := ContentHash(evt)
		if err != nil {
			return false, err
		}
		if hash != evt.Hash || evt.PrevHash != prev || evt.ChainHash != ChainHash(prev, hash) {
			return false, fmt.Errorf("%w: event %d", ErrChainBroken, evt.Seq)
		}
		prev = evt.ChainHash
		return true, nil
	})
	if err != nil {
		return count, err
	}
	seq, chainHash, err := Head(r)
	if err != nil {
		return count, err
	}
	if seq != count || chainHash != prev {
		return count, fmt.Errorf("%w: head at %d, journal at %d", ErrChainBroken, seq, count)
	}
	return count, nil
}
