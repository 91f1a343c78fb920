// Package domain groups the provenance state machine: the asset registry, the
// token ledger, the marketplace that bridges them, and the event journal.
//
// Every function in the subpackages runs against a state.Txn or state.Reader
// supplied by the caller and never commits on its own. Composition into
// atomic operations happens in the engine package.
package domain
