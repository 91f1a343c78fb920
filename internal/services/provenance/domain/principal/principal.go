// Package principal defines the opaque caller identity used for ownership and
// authorization comparisons.
package principal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
)

// MaxLength bounds principal strings accepted at the boundary.
const MaxLength = 256

// ErrInvalid indicates a blank or malformed principal.
var ErrInvalid = apperrors.New(apperrors.CodePrincipalInvalid, "principal is required")

// Principal is a host-authenticated identity. Equality is the only operation
// the core relies on.
type Principal string

// Parse trims raw and rejects empty, oversized or control-character values.
func Parse(raw string) (Principal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrInvalid
	}
	if len(value) > MaxLength || !utf8.ValidString(value) || strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return "", apperrors.WithMetadata(apperrors.CodePrincipalInvalid, "principal is malformed", map[string]string{
			"Principal": value,
		})
	}
	return Principal(value), nil
}

// String returns the raw identity.
func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether p is the empty principal.
func (p Principal) IsZero() bool {
	return p == ""
}
