// Package asset defines registry asset records and their listing state.
package asset

import (
	"strconv"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
)

// ID identifies a minted asset. Ids start at 1 and are never reused.
type ID uint64

// String renders the id in base 10.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Listing is an active sale offer. Seller is the owner at listing time.
type Listing struct {
	Seller principal.Principal `cbor:"seller"`
	Price  uint64              `cbor:"price"`
}

// Asset is one registry record.
type Asset struct {
	ID       ID                  `cbor:"id"`
	Owner    principal.Principal `cbor:"owner"`
	Metadata string              `cbor:"metadata"`
	Location string              `cbor:"location"`
	Listing  *Listing            `cbor:"listing,omitempty"`
}

// Listed reports whether the asset has an active listing.
func (a Asset) Listed() bool {
	return a.Listing != nil
}

// Price returns the listing price, or zero when unlisted.
func (a Asset) Price() uint64 {
	if a.Listing == nil {
		return 0
	}
	return a.Listing.Price
}

// Clone returns a copy that does not share the listing pointer.
func (a Asset) Clone() Asset {
	if a.Listing != nil {
		listing := *a.Listing
		a.Listing = &listing
	}
	return a
}
