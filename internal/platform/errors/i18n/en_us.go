package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotAuthorized         = "NOT_AUTHORIZED"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyListed         = "ALREADY_LISTED"
	CodeNotListed             = "NOT_LISTED"
	CodeInsufficientPayment   = "INSUFFICIENT_PAYMENT"
	CodeSelfPurchase          = "SELF_PURCHASE"
	CodeInsufficientAllowance = "INSUFFICIENT_ALLOWANCE"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeInvalidAssetID        = "INVALID_ASSET_ID"
	CodeAmountOverflow        = "AMOUNT_OVERFLOW"
	CodePrincipalInvalid      = "PRINCIPAL_INVALID"
	CodeFilterInvalid         = "FILTER_INVALID"
	CodePageTokenInvalid      = "PAGE_TOKEN_INVALID"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeUnknown               = "UNKNOWN"
)

var enUSMessages = map[Code]string{
	CodeNotAuthorized:         "You are not allowed to do that with asset {{.AssetID}}.",
	CodeNotFound:              "Asset {{.AssetID}} does not exist.",
	CodeAlreadyListed:         "Asset {{.AssetID}} is already listed for sale.",
	CodeNotListed:             "Asset {{.AssetID}} is not listed for sale.",
	CodeInsufficientPayment:   "Payment of {{.Payment}} is below the asking price of {{.Price}}.",
	CodeSelfPurchase:          "You cannot buy your own listing.",
	CodeInsufficientAllowance: "The allowance for asset {{.AssetID}} is too low.",
	CodeInsufficientBalance:   "The balance for asset {{.AssetID}} is too low.",
	CodeInvalidAssetID:        "Asset id {{.AssetID}} has not been minted.",
	CodeAmountOverflow:        "The amount would exceed the maximum supply.",
	CodePrincipalInvalid:      "A principal is required.",
	CodeFilterInvalid:         "The filter could not be understood.",
	CodePageTokenInvalid:      "The page token is invalid.",
	CodeUnauthenticated:       "Sign in to continue.",
	CodeUnknown:               "Something went wrong.",
}
