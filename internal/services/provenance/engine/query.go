package engine

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/platform/grpc/pagination"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/filter"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

var (
	assetPageSize = pagination.PageSizeConfig{Default: 50, Max: 200}
	eventPageSize = pagination.PageSizeConfig{Default: 100, Max: 500}
)

// AssetFields are the fields list filters may reference.
var AssetFields = filter.Fields{
	"id":       filter.KindInt,
	"owner":    filter.KindString,
	"seller":   filter.KindString,
	"location": filter.KindString,
	"metadata": filter.KindString,
	"listed":   filter.KindBool,
	"price":    filter.KindInt,
}

// ListAssetsRequest selects a page of assets in id order.
type ListAssetsRequest struct {
	Filter    string
	PageSize  int32
	PageToken string
}

// AssetPage is one page of ListAssets results.
type AssetPage struct {
	Assets        []asset.Asset
	NextPageToken string
}

// ListAssets returns assets matching the request filter, ordered by id.
func (e *Engine) ListAssets(ctx context.Context, req ListAssetsRequest) (AssetPage, error) {
	parsed, err := filter.Parse(req.Filter, AssetFields)
	if err != nil {
		return AssetPage{}, invalidFilter(err)
	}
	after, err := pagination.DecodeToken(req.PageToken)
	if err != nil {
		return AssetPage{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
	}
	limit := pagination.ClampPageSize(req.PageSize, assetPageSize)

	var page AssetPage
	attrs := []attribute.KeyValue{attribute.Int("provenance.page_size", limit)}
	err = e.view(ctx, "ListAssets", attrs, func(r state.Reader) error {
		page = AssetPage{}
		return e.registry.Scan(r, asset.ID(after), func(a asset.Asset) (bool, error) {
			ok, err := parsed.Match(assetResolver(a))
			if err != nil {
				return false, invalidFilter(err)
			}
			if !ok {
				return true, nil
			}
			if len(page.Assets) == limit {
				page.NextPageToken = pagination.EncodeToken(uint64(page.Assets[limit-1].ID))
				return false, nil
			}
			page.Assets = append(page.Assets, a)
			return true, nil
		})
	})
	if err != nil {
		return AssetPage{}, err
	}
	return page, nil
}

func invalidFilter(err error) error {
	return apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid filter", err)
}

func assetResolver(a asset.Asset) filter.Resolver {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return uint64(a.ID), true
		case "owner":
			return a.Owner.String(), true
		case "seller":
			if a.Listing == nil {
				return "", true
			}
			return a.Listing.Seller.String(), true
		case "location":
			return a.Location, true
		case "metadata":
			return a.Metadata, true
		case "listed":
			return a.Listed(), true
		case "price":
			return a.Price(), true
		default:
			return nil, false
		}
	}
}

// ListEvents returns journal events with Seq > afterSeq in order.
func (e *Engine) ListEvents(ctx context.Context, afterSeq uint64, limit int32) ([]journal.Event, error) {
	size := pagination.ClampPageSize(limit, eventPageSize)
	var events []journal.Event
	attrs := []attribute.KeyValue{attribute.String("provenance.after_seq", strconv.FormatUint(afterSeq, 10))}
	err := e.view(ctx, "ListEvents", attrs, func(r state.Reader) error {
		var err error
		events, err = journal.List(r, afterSeq, size)
		return err
	})
	return events, err
}

// VerifyJournal checks the journal hash chain and returns the event count.
func (e *Engine) VerifyJournal(ctx context.Context) (uint64, error) {
	var count uint64
	err := e.view(ctx, "VerifyJournal", nil, func(r state.Reader) error {
		var err error
		count, err = journal.Verify(r)
		return err
	})
	return count, err
}
