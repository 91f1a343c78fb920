package engine

import (
	"context"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/market"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

// ListAsset offers an asset owned by caller at price.
func (e *Engine) ListAsset(ctx context.Context, caller principal.Principal, id asset.ID, price uint64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return e.update(ctx, "ListAsset", assetAttr(id), func(txn state.Txn) error {
		if _, err := e.market.List(txn, caller, id, price); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeAssetListed,
			AssetID: id,
			Actor:   caller,
			Price:   price,
		})
	})
}

// UnlistAsset withdraws caller's active listing.
func (e *Engine) UnlistAsset(ctx context.Context, caller principal.Principal, id asset.ID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return e.update(ctx, "UnlistAsset", assetAttr(id), func(txn state.Txn) error {
		if _, err := e.market.Unlist(txn, caller, id); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeAssetUnlisted,
			AssetID: id,
			Actor:   caller,
		})
	})
}

// BuyAsset purchases a listed asset. Ownership and payment commit together.
func (e *Engine) BuyAsset(ctx context.Context, caller principal.Principal, id asset.ID, payment uint64) (market.Sale, error) {
	if err := requireCaller(caller); err != nil {
		return market.Sale{}, err
	}
	var sale market.Sale
	err := e.update(ctx, "BuyAsset", assetAttr(id), func(txn state.Txn) error {
		var err error
		sale, err = e.market.Buy(txn, caller, id, payment)
		if err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeAssetSold,
			AssetID: id,
			Actor:   caller,
			From:    sale.Seller,
			To:      caller,
			Price:   sale.Price,
		})
	})
	if err != nil {
		return market.Sale{}, err
	}
	return sale, nil
}
