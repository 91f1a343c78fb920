package provenance

import (
	provenancev1 "github.com/louisbranch/provenance/api/gen/go/provenance/v1"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
)

func assetToProto(record asset.Asset) *provenancev1.Asset {
	out := &provenancev1.Asset{
		AssetId:  uint64(record.ID),
		Owner:    record.Owner.String(),
		Metadata: record.Metadata,
		Location: record.Location,
	}
	if record.Listing != nil {
		out.Listing = &provenancev1.Listing{
			Seller: record.Listing.Seller.String(),
			Price:  record.Listing.Price,
		}
	}
	return out
}

func eventToProto(evt journal.Event) *provenancev1.Event {
	return &provenancev1.Event{
		Seq:       evt.Seq,
		Type:      string(evt.Type),
		AssetId:   uint64(evt.AssetID),
		Actor:     evt.Actor.String(),
		From:      evt.From.String(),
		To:        evt.To.String(),
		Amount:    evt.Amount,
		Price:     evt.Price,
		Location:  evt.Location,
		Metadata:  evt.Metadata,
		Hash:      evt.Hash,
		ChainHash: evt.ChainHash,
	}
}
