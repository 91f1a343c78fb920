package registry

import "github.com/louisbranch/provenance/internal/services/provenance/domain/principal"

// MintPolicy decides whether a caller may mint assets.
type MintPolicy interface {
	AllowMint(caller principal.Principal) bool
}

// MintPolicyFunc adapts a function to MintPolicy.
type MintPolicyFunc func(caller principal.Principal) bool

// AllowMint implements MintPolicy.
func (fn MintPolicyFunc) AllowMint(caller principal.Principal) bool {
	return fn(caller)
}

// OpenMinting lets every caller mint.
func OpenMinting() MintPolicy {
	return MintPolicyFunc(func(principal.Principal) bool { return true })
}

// Allowlist lets only the given principals mint. An empty list allows
// nobody; use OpenMinting for an unrestricted registry.
func Allowlist(principals ...principal.Principal) MintPolicy {
	allowed := make(map[principal.Principal]struct{}, len(principals))
	for _, p := range principals {
		allowed[p] = struct{}{}
	}
	return MintPolicyFunc(func(caller principal.Principal) bool {
		_, ok := allowed[caller]
		return ok
	})
}
