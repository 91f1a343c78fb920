package engine

import (
	"context"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/ledger"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

// IsValidAssetID reports whether id has been minted.
func (e *Engine) IsValidAssetID(ctx context.Context, id asset.ID) (bool, error) {
	var valid bool
	err := e.view(ctx, "IsValidAssetID", assetAttr(id), func(r state.Reader) error {
		var err error
		valid, err = e.ledger.IsValidAssetID(r, id)
		return err
	})
	return valid, err
}

// GetBalance returns the units of id held by p.
func (e *Engine) GetBalance(ctx context.Context, p principal.Principal, id asset.ID) (uint64, error) {
	var amount uint64
	err := e.view(ctx, "GetBalance", assetAttr(id), func(r state.Reader) error {
		var err error
		amount, err = e.ledger.Balance(r, p, id)
		return err
	})
	return amount, err
}

// GetAllowance returns what spender may still move of owner's id balance.
func (e *Engine) GetAllowance(ctx context.Context, owner, spender principal.Principal, id asset.ID) (uint64, error) {
	var amount uint64
	err := e.view(ctx, "GetAllowance", assetAttr(id), func(r state.Reader) error {
		var err error
		amount, err = e.ledger.Allowance(r, owner, spender, id)
		return err
	})
	return amount, err
}

// GetTotalSupply returns the issued units of id.
func (e *Engine) GetTotalSupply(ctx context.Context, id asset.ID) (uint64, error) {
	var amount uint64
	err := e.view(ctx, "GetTotalSupply", assetAttr(id), func(r state.Reader) error {
		var err error
		amount, err = e.ledger.TotalSupply(r, id)
		return err
	})
	return amount, err
}

// Holders lists the non-zero balances of id.
func (e *Engine) Holders(ctx context.Context, id asset.ID) ([]ledger.Holding, error) {
	var holdings []ledger.Holding
	err := e.view(ctx, "Holders", assetAttr(id), func(r state.Reader) error {
		var err error
		holdings, err = e.ledger.Holders(r, id)
		return err
	})
	return holdings, err
}

// Approve sets the allowance spender has over caller's id balance.
func (e *Engine) Approve(ctx context.Context, caller, spender principal.Principal, id asset.ID, amount uint64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := requireCaller(spender); err != nil {
		return err
	}
	return e.update(ctx, "Approve", assetAttr(id), func(txn state.Txn) error {
		if err := e.ledger.Approve(txn, caller, spender, id, amount); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeLedgerApproved,
			AssetID: id,
			Actor:   caller,
			From:    caller,
			To:      spender,
			Amount:  amount,
		})
	})
}

// TransferFrom moves amount of from's id balance to to, spending caller's
// allowance.
func (e *Engine) TransferFrom(ctx context.Context, caller, from, to principal.Principal, id asset.ID, amount uint64) error {
	for _, p := range []principal.Principal{caller, from, to} {
		if err := requireCaller(p); err != nil {
			return err
		}
	}
	return e.update(ctx, "TransferFrom", assetAttr(id), func(txn state.Txn) error {
		if err := e.ledger.TransferFrom(txn, caller, from, to, id, amount); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeLedgerTransferred,
			AssetID: id,
			Actor:   caller,
			From:    from,
			To:      to,
			Amount:  amount,
		})
	})
}

// Transfer moves amount of caller's id balance to to.
func (e *Engine) Transfer(ctx context.Context, caller, to principal.Principal, id asset.ID, amount uint64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := requireCaller(to); err != nil {
		return err
	}
	return e.update(ctx, "Transfer", assetAttr(id), func(txn state.Txn) error {
		if err := e.ledger.Transfer(txn, caller, to, id, amount); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeLedgerTransferred,
			AssetID: id,
			Actor:   caller,
			From:    caller,
			To:      to,
			Amount:  amount,
		})
	})
}

// IssueUnits credits new units of id to its registry owner.
func (e *Engine) IssueUnits(ctx context.Context, caller principal.Principal, id asset.ID, amount uint64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return e.update(ctx, "IssueUnits", assetAttr(id), func(txn state.Txn) error {
		if err := e.ledger.Issue(txn, caller, id, amount); err != nil {
			return err
		}
		return record(txn, journal.Event{
			Type:    journal.TypeLedgerIssued,
			AssetID: id,
			Actor:   caller,
			To:      caller,
			Amount:  amount,
		})
	})
}
