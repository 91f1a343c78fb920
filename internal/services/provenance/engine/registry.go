package engine

import (
	"context"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

// MintAsset creates an asset owned by caller and returns its id.
func (e *Engine) MintAsset(ctx context.Context, caller principal.Principal, metadata, location string) (asset.ID, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	var id asset.ID
	err := e.update(ctx, "MintAsset", nil, func(txn state.Txn) error {
		minted, err := e.registry.Mint(txn, caller, metadata, location)
		if err != nil {
			return err
		}
		id = minted.ID
		return record(txn, journal.Event{
			Type:     journal.TypeAssetMinted,
			AssetID:  minted.ID,
			Actor:    caller,
			To:       caller,
			Metadata: metadata,
			Location: location,
		})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateLocation changes the location of an asset owned by caller.
func (e *Engine) UpdateLocation(ctx context.Context, caller principal.Principal, id asset.ID, location string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return e.update(ctx, "UpdateLocation", assetAttr(id), func(txn state.Txn) error {
		if _, err := e.registry.UpdateLocation(txn, caller, id, location); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:     journal.TypeAssetLocationUpdated,
			AssetID:  id,
			Actor:    caller,
			Location: location,
		})
	})
}

// TransferOwnership hands an unlisted asset owned by caller to newOwner.
func (e *Engine) TransferOwnership(ctx context.Context, caller principal.Principal, id asset.ID, newOwner principal.Principal) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := requireCaller(newOwner); err != nil {
		return err
	}
	return e.update(ctx, "TransferOwnership", assetAttr(id), func(txn state.Txn) error {
		if _, err := e.registry.TransferOwnership(txn, caller, id, newOwner); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeAssetTransferred,
			AssetID: id,
			Actor:   caller,
			From:    caller,
			To:      newOwner,
		})
	})
}

// GetOwner returns the owner of id, or false when id was never minted.
func (e *Engine) GetOwner(ctx context.Context, id asset.ID) (principal.Principal, bool, error) {
	var (
		owner principal.Principal
		found bool
	)
	err := e.view(ctx, "GetOwner", assetAttr(id), func(r state.Reader) error {
		var err error
		owner, found, err = e.registry.Owner(r, id)
		return err
	})
	return owner, found, err
}

// GetAsset returns the full asset record.
func (e *Engine) GetAsset(ctx context.Context, id asset.ID) (asset.Asset, bool, error) {
	var (
		result asset.Asset
		found  bool
	)
	err := e.view(ctx, "GetAsset", assetAttr(id), func(r state.Reader) error {
		var err error
		result, found, err = e.registry.Get(r, id)
		return err
	})
	return result, found, err
}
