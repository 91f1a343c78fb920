// Package market lists registry assets for sale and settles purchases.
//
// A purchase is applied with a staged pattern: every precondition across the
// registry and the ledger is validated first, then the ownership and payment
// legs are staged in the same transaction.
package market

import (
	"strconv"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/ledger"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/registry"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

var (
	// ErrInsufficientPayment indicates the offered payment is below the price.
	ErrInsufficientPayment = apperrors.New(apperrors.CodeInsufficientPayment, "insufficient payment")
	// ErrSelfPurchase indicates the buyer already owns the asset.
	ErrSelfPurchase = apperrors.New(apperrors.CodeSelfPurchase, "cannot buy own asset")
)

// Settlement selects how a sale pays the seller.
type Settlement struct {
	// AssetID is the ledger asset used as currency. Zero settles directly:
	// ownership moves and no funds are tracked.
	AssetID asset.ID
}

// Ledgered reports whether sales move ledger funds.
func (s Settlement) Ledgered() bool {
	return s.AssetID != 0
}

// Market applies listing transitions.
type Market struct {
	registry   *registry.Registry
	ledger     *ledger.Ledger
	settlement Settlement
}

// New creates a market over reg and led.
func New(reg *registry.Registry, led *ledger.Ledger, settlement Settlement) *Market {
	return &Market{registry: reg, ledger: led, settlement: settlement}
}

// Settlement returns the configured settlement mode.
func (m *Market) Settlement() Settlement {
	return m.settlement
}

// List puts an asset owned by caller up for sale. Checks run in order:
// existence, ownership, existing listing.
func (m *Market) List(txn state.Txn, caller principal.Principal, id asset.ID, price uint64) (asset.Asset, error) {
	record, ok, err := m.registry.Get(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !ok {
		return asset.Asset{}, registry.NotFound(id)
	}
	if record.Owner != caller {
		return asset.Asset{}, registry.NotAuthorized(id)
	}
	if record.Listed() {
		return asset.Asset{}, registry.AlreadyListed(id)
	}
	return m.registry.SetListing(txn, id, &asset.Listing{Seller: caller, Price: price})
}

// Unlist withdraws an active listing. An unknown asset has no listing and
// reports NotListed; a non-owner reports NotAuthorized.
func (m *Market) Unlist(txn state.Txn, caller principal.Principal, id asset.ID) (asset.Asset, error) {
	record, ok, err := m.registry.Get(txn, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !ok {
		return asset.Asset{}, registry.NotListed(id)
	}
	if record.Owner != caller {
		return asset.Asset{}, registry.NotAuthorized(id)
	}
	if !record.Listed() {
		return asset.Asset{}, registry.NotListed(id)
	}
	return m.registry.SetListing(txn, id, nil)
}

// Sale describes a completed purchase.
type Sale struct {
	Asset  asset.Asset
	Seller principal.Principal
	Price  uint64
}

// Buy purchases a listed asset. Checks run in order: active listing,
// payment, self purchase, then the settlement leg when funds are ledgered.
// The buyer pays exactly the listing price.
func (m *Market) Buy(txn state.Txn, caller principal.Principal, id asset.ID, payment uint64) (Sale, error) {
	record, ok, err := m.registry.Get(txn, id)
	if err != nil {
		return Sale{}, err
	}
	if !ok || !record.Listed() {
		return Sale{}, registry.NotListed(id)
	}
	listing := *record.Listing
	if payment < listing.Price {
		return Sale{}, apperrors.WithMetadata(apperrors.CodeInsufficientPayment, "payment is below price", map[string]string{
			"AssetID": id.String(),
			"Payment": strconv.FormatUint(payment, 10),
			"Price":   strconv.FormatUint(listing.Price, 10),
		})
	}
	if caller == record.Owner {
		return Sale{}, apperrors.WithMetadata(apperrors.CodeSelfPurchase, "buyer already owns the asset", map[string]string{
			"AssetID": id.String(),
		})
	}
	charge := m.settlement.Ledgered() && listing.Price > 0
	if charge {
		if err := m.ledger.CheckSettlement(txn, caller, m.settlement.AssetID, listing.Price); err != nil {
			return Sale{}, err
		}
	}

	sold, err := m.registry.SettleListing(txn, id, listing, caller)
	if err != nil {
		return Sale{}, err
	}
	if charge {
		if err := m.ledger.Settle(txn, caller, listing.Seller, m.settlement.AssetID, listing.Price); err != nil {
			return Sale{}, err
		}
	}
	return Sale{Asset: sold, Seller: listing.Seller, Price: listing.Price}, nil
}
