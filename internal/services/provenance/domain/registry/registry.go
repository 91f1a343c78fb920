// Package registry owns asset records: minting, location updates and the
// single source of truth for who owns an asset.
package registry

import (
	"fmt"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

const (
	seqKey      = "registry/seq"
	assetPrefix = "registry/asset/"
)

// AssetKey returns the state key of an asset record. Ids are zero padded so
// keys sort in id order.
func AssetKey(id asset.ID) string {
	return fmt.Sprintf("%s%020d", assetPrefix, uint64(id))
}

// Registry applies asset record transitions.
type Registry struct {
	policy MintPolicy
}

// New creates a registry gated by policy. A nil policy means open minting.
func New(policy MintPolicy) *Registry {
	if policy == nil {
		policy = OpenMinting()
	}
	return &Registry{policy: policy}
}

// LastID returns the highest minted id, or zero before the first mint.
func (r *Registry) LastID(rd state.Reader) (asset.ID, error) {
	seq, _, err := state.GetRecord[uint64](rd, seqKey)
	if err != nil {
		return 0, fmt.Errorf("read asset sequence: %w", err)
	}
	return asset.ID(seq), nil
}

// Get loads an asset record.
func (r *Registry) Get(rd state.Reader, id asset.ID) (asset.Asset, bool, error) {
	if id == 0 {
		return asset.Asset{}, false, nil
	}
	record, ok, err := state.GetRecord[asset.Asset](rd, AssetKey(id))
	if err != nil {
		return asset.Asset{}, false, fmt.Errorf("read asset %s: %w", id, err)
	}
	return record, ok, nil
}

// Owner returns the current owner of id, if it exists.
func (r *Registry) Owner(rd state.Reader, id asset.ID) (principal.Principal, bool, error) {
	record, ok, err := r.Get(rd, id)
	if err != nil || !ok {
		return "", false, err
	}
	return record.Owner, true, nil
}

// Scan visits assets in id order starting after the given id.
func (r *Registry) Scan(rd state.Reader, after asset.ID, fn func(asset.Asset) (bool, error)) error {
	start := ""
	if after == asset.ID(^uint64(0)) {
		return nil
	}
	if after > 0 {
		start = AssetKey(after + 1)
	}
	return state.ScanRecords(rd, assetPrefix, start, func(_ string, record asset.Asset) (bool, error) {
		return fn(record)
	})
}

// Mint creates a new unlisted asset owned by caller with the next id.
func (r *Registry) Mint(txn state.Txn, caller principal.Principal, metadata, location string) (asset.Asset, error) {
	last, err := r.LastID(txn)
	if err != nil {
		return asset.Asset{}, err
	}
	if !r.policy.AllowMint(caller) {
		return asset.Asset{}, NotAuthorized(last + 1)
	}
	if last == asset.ID(^uint64(0)) {
		return asset.Asset{}, fmt.Errorf("asset id space exhausted")
	}
	record := asset.Asset{
		ID:       last + 1,
		Owner:    caller,
		Metadata: metadata,
		Location: location,
	}
	if err := state.PutRecord(txn, seqKey, uint64(record.ID)); err != nil {
		return asset.Asset{}, err
	}
	if err := r.put(txn, record); err != nil {
		return asset.Asset{}, err
	}
	return record, nil
}

// UpdateLocation replaces the location of an asset owned by caller. Checks
// run in order: existence, then ownership.
func (r *Registry) UpdateLocation(txn state.Txn, caller principal.Principal, id asset.ID, location string) (asset.Asset, error) {
	record, err := r.mustGet(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if record.Owner != caller {
		return asset.Asset{}, NotAuthorized(id)
	}
	record.Location = location
	if err := r.put(txn, record); err != nil {
		return asset.Asset{}, err
	}
	return record, nil
}

// TransferOwnership moves an unlisted asset from its owner to newOwner.
// Listed assets change hands only through SettleListing.
func (r *Registry) TransferOwnership(txn state.Txn, caller principal.Principal, id asset.ID, newOwner principal.Principal) (asset.Asset, error) {
	record, err := r.mustGet(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if record.Owner != caller {
		return asset.Asset{}, NotAuthorized(id)
	}
	if record.Listed() {
		return asset.Asset{}, AlreadyListed(id)
	}
	record.Owner = newOwner
	if err := r.put(txn, record); err != nil {
		return asset.Asset{}, err
	}
	return record, nil
}

// SetListing attaches or clears the listing of an existing asset. It does not
// check authorization; the marketplace owns listing rules.
func (r *Registry) SetListing(txn state.Txn, id asset.ID, listing *asset.Listing) (asset.Asset, error) {
	record, err := r.mustGet(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	record.Listing = listing
	if err := r.put(txn, record); err != nil {
		return asset.Asset{}, err
	}
	return record, nil
}

// SettleListing completes a sale: it clears the listing and hands the asset
// to buyer. expected must match the active listing exactly; anything else is
// NotAuthorized.
func (r *Registry) SettleListing(txn state.Txn, id asset.ID, expected asset.Listing, buyer principal.Principal) (asset.Asset, error) {
	record, ok, err := r.Get(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !ok || !record.Listed() {
		return asset.Asset{}, NotListed(id)
	}
	if *record.Listing != expected || record.Owner != expected.Seller {
		return asset.Asset{}, NotAuthorized(id)
	}
	record.Owner = buyer
	record.Listing = nil
	if err := r.put(txn, record); err != nil {
		return asset.Asset{}, err
	}
	return record, nil
}

func (r *Registry) mustGet(rd state.Reader, id asset.ID) (asset.Asset, error) {
	record, ok, err := r.Get(rd, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !ok {
		return asset.Asset{}, NotFound(id)
	}
	return record, nil
}

func (r *Registry) put(txn state.Txn, record asset.Asset) error {
	if err := state.PutRecord(txn, AssetKey(record.ID), record); err != nil {
		return fmt.Errorf("write asset %s: %w", record.ID, err)
	}
	return nil
}
