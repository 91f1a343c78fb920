// Package errors provides structured domain errors with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Registry and marketplace errors
	CodeNotAuthorized       Code = "NOT_AUTHORIZED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeAlreadyListed       Code = "ALREADY_LISTED"
	CodeNotListed           Code = "NOT_LISTED"
	CodeInsufficientPayment Code = "INSUFFICIENT_PAYMENT"
	CodeSelfPurchase        Code = "SELF_PURCHASE"

	// Ledger errors
	CodeInsufficientAllowance Code = "INSUFFICIENT_ALLOWANCE"
	CodeInsufficientBalance   Code = "INSUFFICIENT_BALANCE"
	CodeInvalidAssetID        Code = "INVALID_ASSET_ID"
	CodeAmountOverflow        Code = "AMOUNT_OVERFLOW"

	// Request validation errors
	CodePrincipalInvalid Code = "PRINCIPAL_INVALID"
	CodeFilterInvalid    Code = "FILTER_INVALID"
	CodePageTokenInvalid Code = "PAGE_TOKEN_INVALID"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed request values
	case CodeInvalidAssetID,
		CodePrincipalInvalid,
		CodeFilterInvalid,
		CodePageTokenInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeAlreadyListed,
		CodeNotListed,
		CodeInsufficientPayment,
		CodeSelfPurchase,
		CodeInsufficientAllowance,
		CodeInsufficientBalance:
		return codes.FailedPrecondition

	case CodeNotAuthorized:
		return codes.PermissionDenied

	case CodeUnauthenticated:
		return codes.Unauthenticated

	case CodeNotFound:
		return codes.NotFound

	case CodeAmountOverflow:
		return codes.OutOfRange

	default:
		return codes.Internal
	}
}
