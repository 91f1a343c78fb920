package ledger

import (
	"strconv"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
)

var (
	// ErrInvalidAssetID indicates the id was never issued by the registry.
	ErrInvalidAssetID = apperrors.New(apperrors.CodeInvalidAssetID, "invalid asset id")
	// ErrInsufficientAllowance indicates the spender allowance is too low.
	ErrInsufficientAllowance = apperrors.New(apperrors.CodeInsufficientAllowance, "insufficient allowance")
	// ErrInsufficientBalance indicates the source balance is too low.
	ErrInsufficientBalance = apperrors.New(apperrors.CodeInsufficientBalance, "insufficient balance")
	// ErrAmountOverflow indicates issuance would overflow the supply counter.
	ErrAmountOverflow = apperrors.New(apperrors.CodeAmountOverflow, "amount overflows supply")
)

func invalidAssetID(id asset.ID) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidAssetID, "asset id "+id.String()+" is not valid", map[string]string{
		"AssetID": id.String(),
	})
}

func insufficient(code apperrors.Code, what string, id asset.ID, have, want uint64) error {
	return apperrors.WithMetadata(code, what+" "+strconv.FormatUint(have, 10)+" is below "+strconv.FormatUint(want, 10), map[string]string{
		"AssetID":   id.String(),
		"Available": strconv.FormatUint(have, 10),
		"Requested": strconv.FormatUint(want, 10),
	})
}

// InsufficientBalance returns ErrInsufficientBalance annotated with amounts.
func InsufficientBalance(id asset.ID, have, want uint64) error {
	return insufficient(apperrors.CodeInsufficientBalance, "balance", id, have, want)
}

// InsufficientAllowance returns ErrInsufficientAllowance annotated with amounts.
func InsufficientAllowance(id asset.ID, have, want uint64) error {
	return insufficient(apperrors.CodeInsufficientAllowance, "allowance", id, have, want)
}

func assetNotFound(id asset.ID) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, "asset "+id.String()+" not found", map[string]string{
		"AssetID": id.String(),
	})
}

func notIssuer(id asset.ID) error {
	return apperrors.WithMetadata(apperrors.CodeNotAuthorized, "only the owner of asset "+id.String()+" may issue units", map[string]string{
		"AssetID": id.String(),
	})
}
