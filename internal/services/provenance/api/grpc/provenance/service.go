// Package provenance implements the provenance.v1 gRPC service over the
// engine.
package provenance

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	provenancev1 "github.com/louisbranch/provenance/api/gen/go/provenance/v1"
	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/platform/requestctx"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/engine"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

// Service exposes provenance.v1 gRPC operations.
type Service struct {
	engine *engine.Engine
}

// NewService creates a provenance service backed by eng.
func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

var ack = &provenancev1.Ack{Ok: true}

// MintAsset creates an asset owned by the caller.
func (s *Service) MintAsset(ctx context.Context, in *provenancev1.MintAssetRequest) (*provenancev1.MintAssetResponse, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	id, err := s.engine.MintAsset(ctx, caller, in.Metadata, in.Location)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.MintAssetResponse{AssetId: uint64(id)}, nil
}

// UpdateLocation moves an asset owned by the caller.
func (s *Service) UpdateLocation(ctx context.Context, in *provenancev1.UpdateLocationRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.engine.UpdateLocation(ctx, caller, asset.ID(in.AssetId), in.Location); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// TransferOwnership hands an unlisted asset to a new owner.
func (s *Service) TransferOwnership(ctx context.Context, in *provenancev1.TransferOwnershipRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	newOwner, err := parsePrincipal(ctx, in.NewOwner)
	if err != nil {
		return nil, err
	}
	if err := s.engine.TransferOwnership(ctx, caller, asset.ID(in.AssetId), newOwner); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// GetOwner returns the owner of an asset.
func (s *Service) GetOwner(ctx context.Context, in *provenancev1.GetOwnerRequest) (*provenancev1.GetOwnerResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get owner request is required")
	}
	owner, found, err := s.engine.GetOwner(ctx, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.GetOwnerResponse{Owner: owner.String(), Found: found}, nil
}

// GetAsset returns one asset record.
func (s *Service) GetAsset(ctx context.Context, in *provenancev1.GetAssetRequest) (*provenancev1.GetAssetResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get asset request is required")
	}
	record, found, err := s.engine.GetAsset(ctx, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, "asset not found")
	}
	return &provenancev1.GetAssetResponse{Asset: assetToProto(record)}, nil
}

// ListAssets returns a page of assets matching an AIP-160 filter.
func (s *Service) ListAssets(ctx context.Context, in *provenancev1.ListAssetsRequest) (*provenancev1.ListAssetsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list assets request is required")
	}
	page, err := s.engine.ListAssets(ctx, engine.ListAssetsRequest{
		Filter:    in.Filter,
		PageSize:  in.PageSize,
		PageToken: in.PageToken,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &provenancev1.ListAssetsResponse{
		Assets:        make([]*provenancev1.Asset, 0, len(page.Assets)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Assets {
		resp.Assets = append(resp.Assets, assetToProto(record))
	}
	return resp, nil
}

// ListAsset offers an asset for sale.
func (s *Service) ListAsset(ctx context.Context, in *provenancev1.ListAssetRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.engine.ListAsset(ctx, caller, asset.ID(in.AssetId), in.Price); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// UnlistAsset withdraws a listing.
func (s *Service) UnlistAsset(ctx context.Context, in *provenancev1.UnlistAssetRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.engine.UnlistAsset(ctx, caller, asset.ID(in.AssetId)); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// BuyAsset purchases a listed asset.
func (s *Service) BuyAsset(ctx context.Context, in *provenancev1.BuyAssetRequest) (*provenancev1.BuyAssetResponse, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	sale, err := s.engine.BuyAsset(ctx, caller, asset.ID(in.AssetId), in.Payment)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.BuyAssetResponse{
		Asset:  assetToProto(sale.Asset),
		Seller: sale.Seller.String(),
		Price:  sale.Price,
	}, nil
}

// IsValidAssetId reports whether an id has been minted.
func (s *Service) IsValidAssetId(ctx context.Context, in *provenancev1.IsValidAssetIdRequest) (*provenancev1.IsValidAssetIdResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "is valid asset id request is required")
	}
	valid, err := s.engine.IsValidAssetID(ctx, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.IsValidAssetIdResponse{Valid: valid}, nil
}

// GetBalance returns a ledger balance.
func (s *Service) GetBalance(ctx context.Context, in *provenancev1.GetBalanceRequest) (*provenancev1.AmountResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get balance request is required")
	}
	holder, err := parsePrincipal(ctx, in.Principal)
	if err != nil {
		return nil, err
	}
	amount, err := s.engine.GetBalance(ctx, holder, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.AmountResponse{Amount: amount}, nil
}

// GetAllowance returns what a spender may move for an owner.
func (s *Service) GetAllowance(ctx context.Context, in *provenancev1.GetAllowanceRequest) (*provenancev1.AmountResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get allowance request is required")
	}
	owner, err := parsePrincipal(ctx, in.Owner)
	if err != nil {
		return nil, err
	}
	spender, err := parsePrincipal(ctx, in.Spender)
	if err != nil {
		return nil, err
	}
	amount, err := s.engine.GetAllowance(ctx, owner, spender, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.AmountResponse{Amount: amount}, nil
}

// GetTotalSupply returns the issued units of an asset id.
func (s *Service) GetTotalSupply(ctx context.Context, in *provenancev1.GetTotalSupplyRequest) (*provenancev1.AmountResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get total supply request is required")
	}
	amount, err := s.engine.GetTotalSupply(ctx, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.AmountResponse{Amount: amount}, nil
}

// ListHolders returns the non-zero balances of an asset id.
func (s *Service) ListHolders(ctx context.Context, in *provenancev1.ListHoldersRequest) (*provenancev1.ListHoldersResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list holders request is required")
	}
	holdings, err := s.engine.Holders(ctx, asset.ID(in.AssetId))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &provenancev1.ListHoldersResponse{Holdings: make([]*provenancev1.Holding, 0, len(holdings))}
	for _, h := range holdings {
		resp.Holdings = append(resp.Holdings, &provenancev1.Holding{Holder: h.Holder.String(), Amount: h.Amount})
	}
	return resp, nil
}

// Approve sets a spender allowance over the caller's balance.
func (s *Service) Approve(ctx context.Context, in *provenancev1.ApproveRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	spender, err := parsePrincipal(ctx, in.Spender)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Approve(ctx, caller, spender, asset.ID(in.AssetId), in.Amount); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// TransferFrom spends the caller's allowance over another balance.
func (s *Service) TransferFrom(ctx context.Context, in *provenancev1.TransferFromRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	from, err := parsePrincipal(ctx, in.From)
	if err != nil {
		return nil, err
	}
	to, err := parsePrincipal(ctx, in.To)
	if err != nil {
		return nil, err
	}
	if err := s.engine.TransferFrom(ctx, caller, from, to, asset.ID(in.AssetId), in.Amount); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// Transfer moves units from the caller's balance.
func (s *Service) Transfer(ctx context.Context, in *provenancev1.TransferRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	to, err := parsePrincipal(ctx, in.To)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Transfer(ctx, caller, to, asset.ID(in.AssetId), in.Amount); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// IssueUnits credits new units to the asset owner.
func (s *Service) IssueUnits(ctx context.Context, in *provenancev1.IssueUnitsRequest) (*provenancev1.Ack, error) {
	caller, err := callerFor(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.engine.IssueUnits(ctx, caller, asset.ID(in.AssetId), in.Amount); err != nil {
		return nil, handleError(ctx, err)
	}
	return ack, nil
}

// ListEvents returns journal events after a sequence number.
func (s *Service) ListEvents(ctx context.Context, in *provenancev1.ListEventsRequest) (*provenancev1.ListEventsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list events request is required")
	}
	events, err := s.engine.ListEvents(ctx, in.AfterSeq, in.Limit)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &provenancev1.ListEventsResponse{Events: make([]*provenancev1.Event, 0, len(events))}
	for _, evt := range events {
		resp.Events = append(resp.Events, eventToProto(evt))
	}
	return resp, nil
}

// VerifyJournal checks the journal hash chain.
func (s *Service) VerifyJournal(ctx context.Context, _ *provenancev1.VerifyJournalRequest) (*provenancev1.VerifyJournalResponse, error) {
	count, err := s.engine.VerifyJournal(ctx)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.VerifyJournalResponse{EventCount: count}, nil
}

// GetVersion returns the committed state version.
func (s *Service) GetVersion(ctx context.Context, _ *provenancev1.GetVersionRequest) (*provenancev1.GetVersionResponse, error) {
	version, err := s.engine.Version(ctx)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &provenancev1.GetVersionResponse{Version: version}, nil
}

// callerFor returns the authenticated principal for a mutation request.
func callerFor[T any](ctx context.Context, in *T) (principal.Principal, error) {
	if in == nil {
		return "", status.Error(codes.InvalidArgument, "request is required")
	}
	raw := requestctx.PrincipalFromContext(ctx)
	if raw == "" {
		return "", handleError(ctx, apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required"))
	}
	return parsePrincipal(ctx, raw)
}

func parsePrincipal(ctx context.Context, raw string) (principal.Principal, error) {
	p, err := principal.Parse(raw)
	if err != nil {
		return "", handleError(ctx, err)
	}
	return p, nil
}

func handleError(ctx context.Context, err error) error {
	if errors.Is(err, state.ErrConflict) {
		return status.Error(codes.Aborted, "concurrent update, retry")
	}
	return apperrors.HandleError(err, requestctx.LocaleFromContext(ctx))
}
