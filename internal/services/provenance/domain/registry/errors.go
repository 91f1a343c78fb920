package registry

import (
	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
)

var (
	// ErrNotFound indicates no asset exists with the requested id.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "asset not found")
	// ErrNotAuthorized indicates the caller may not act on the asset.
	ErrNotAuthorized = apperrors.New(apperrors.CodeNotAuthorized, "caller is not authorized")
	// ErrAlreadyListed indicates the asset has an active listing.
	ErrAlreadyListed = apperrors.New(apperrors.CodeAlreadyListed, "asset is already listed")
	// ErrNotListed indicates the asset has no active listing.
	ErrNotListed = apperrors.New(apperrors.CodeNotListed, "asset is not listed")
)

func assetError(code apperrors.Code, message string, id asset.ID) error {
	return apperrors.WithMetadata(code, message, map[string]string{"AssetID": id.String()})
}

// NotFound returns ErrNotFound annotated with id.
func NotFound(id asset.ID) error {
	return assetError(apperrors.CodeNotFound, "asset "+id.String()+" not found", id)
}

// NotAuthorized returns ErrNotAuthorized annotated with id.
func NotAuthorized(id asset.ID) error {
	return assetError(apperrors.CodeNotAuthorized, "caller is not authorized for asset "+id.String(), id)
}

// AlreadyListed returns ErrAlreadyListed annotated with id.
func AlreadyListed(id asset.ID) error {
	return assetError(apperrors.CodeAlreadyListed, "asset "+id.String()+" is already listed", id)
}

// NotListed returns ErrNotListed annotated with id.
func NotListed(id asset.ID) error {
	return assetError(apperrors.CodeNotListed, "asset "+id.String()+" is not listed", id)
}
