// Package ledger keeps balance and allowance records addressed by
// (principal, asset id). It is the token trait other components depend on for
// transfer and approval semantics.
package ledger

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

const (
	balancePrefix   = "ledger/balance/"
	allowancePrefix = "ledger/allowance/"
	supplyPrefix    = "ledger/supply/"
)

// AssetIndex is the registry view the ledger needs.
type AssetIndex interface {
	LastID(r state.Reader) (asset.ID, error)
	Owner(r state.Reader, id asset.ID) (principal.Principal, bool, error)
}

// Ledger applies balance and allowance transitions.
type Ledger struct {
	assets AssetIndex
}

// New creates a ledger validating ids against assets.
func New(assets AssetIndex) *Ledger {
	return &Ledger{assets: assets}
}

func segment(p principal.Principal) string {
	return url.PathEscape(p.String())
}

// BalanceKey returns the state key holding the balance of p for id.
func BalanceKey(id asset.ID, p principal.Principal) string {
	return balancePrefix + id.String() + "/" + segment(p)
}

// AllowanceKey returns the state key holding what spender may move of
// owner's id balance.
func AllowanceKey(id asset.ID, owner, spender principal.Principal) string {
	return allowancePrefix + id.String() + "/" + segment(owner) + "/" + segment(spender)
}

func supplyKey(id asset.ID) string {
	return supplyPrefix + id.String()
}

// IsValidAssetID reports whether 1 <= id <= highest minted id.
func (l *Ledger) IsValidAssetID(r state.Reader, id asset.ID) (bool, error) {
	if id == 0 {
		return false, nil
	}
	last, err := l.assets.LastID(r)
	if err != nil {
		return false, err
	}
	return id <= last, nil
}

// Balance returns p's balance of id. Unseen keys are zero.
func (l *Ledger) Balance(r state.Reader, p principal.Principal, id asset.ID) (uint64, error) {
	return readAmount(r, BalanceKey(id, p))
}

// Allowance returns what spender may still move of owner's id balance.
func (l *Ledger) Allowance(r state.Reader, owner, spender principal.Principal, id asset.ID) (uint64, error) {
	return readAmount(r, AllowanceKey(id, owner, spender))
}

// TotalSupply returns the units of id issued so far.
func (l *Ledger) TotalSupply(r state.Reader, id asset.ID) (uint64, error) {
	return readAmount(r, supplyKey(id))
}

// Holding is one non-zero balance.
type Holding struct {
	Holder principal.Principal
	Amount uint64
}

// Holders lists the non-zero balances of id in key order.
func (l *Ledger) Holders(r state.Reader, id asset.ID) ([]Holding, error) {
	prefix := balancePrefix + id.String() + "/"
	var holdings []Holding
	err := state.ScanRecords(r, prefix, "", func(key string, amount uint64) (bool, error) {
		holder, err := url.PathUnescape(strings.TrimPrefix(key, prefix))
		if err != nil {
			return false, fmt.Errorf("decode holder %s: %w", key, err)
		}
		if amount > 0 {
			holdings = append(holdings, Holding{Holder: principal.Principal(holder), Amount: amount})
		}
		return true, nil
	})
	return holdings, err
}

// Approve overwrites the allowance of (caller, spender, id) with amount.
func (l *Ledger) Approve(txn state.Txn, caller, spender principal.Principal, id asset.ID, amount uint64) error {
	if err := l.requireValid(txn, id); err != nil {
		return err
	}
	return writeAmount(txn, AllowanceKey(id, caller, spender), amount)
}

// TransferFrom moves amount of id from `from` to `to` on behalf of caller,
// consuming the (from, caller) allowance. Checks run in order: id validity,
// allowance, balance.
func (l *Ledger) TransferFrom(txn state.Txn, caller, from, to principal.Principal, id asset.ID, amount uint64) error {
	if err := l.requireValid(txn, id); err != nil {
		return err
	}
	allowanceKey := AllowanceKey(id, from, caller)
	allowance, err := readAmount(txn, allowanceKey)
	if err != nil {
		return err
	}
	if allowance < amount {
		return InsufficientAllowance(id, allowance, amount)
	}
	if err := l.move(txn, from, to, id, amount); err != nil {
		return err
	}
	return writeAmount(txn, allowanceKey, allowance-amount)
}

// Transfer moves amount of id from caller to `to`.
func (l *Ledger) Transfer(txn state.Txn, caller, to principal.Principal, id asset.ID, amount uint64) error {
	if err := l.requireValid(txn, id); err != nil {
		return err
	}
	return l.move(txn, caller, to, id, amount)
}

// Settle moves amount of id from buyer to seller as the payment leg of a
// sale. The buyer authorizes it by calling buy, so no allowance is consumed.
func (l *Ledger) Settle(txn state.Txn, buyer, seller principal.Principal, id asset.ID, amount uint64) error {
	return l.Transfer(txn, buyer, seller, id, amount)
}

// CheckSettlement reports the error Settle would return without staging
// anything.
func (l *Ledger) CheckSettlement(r state.Reader, buyer principal.Principal, id asset.ID, amount uint64) error {
	if err := l.requireValid(r, id); err != nil {
		return err
	}
	balance, err := l.Balance(r, buyer, id)
	if err != nil {
		return err
	}
	if balance < amount {
		return InsufficientBalance(id, balance, amount)
	}
	return nil
}

// Issue credits amount of id to caller and raises the total supply. Only the
// registry owner of id may issue units.
func (l *Ledger) Issue(txn state.Txn, caller principal.Principal, id asset.ID, amount uint64) error {
	owner, ok, err := l.assets.Owner(txn, id)
	if err != nil {
		return err
	}
	if !ok {
		return assetNotFound(id)
	}
	if owner != caller {
		return notIssuer(id)
	}
	supply, err := readAmount(txn, supplyKey(id))
	if err != nil {
		return err
	}
	if supply > ^uint64(0)-amount {
		return ErrAmountOverflow
	}
	balance, err := l.Balance(txn, caller, id)
	if err != nil {
		return err
	}
	if err := writeAmount(txn, supplyKey(id), supply+amount); err != nil {
		return err
	}
	return writeAmount(txn, BalanceKey(id, caller), balance+amount)
}

func (l *Ledger) requireValid(r state.Reader, id asset.ID) error {
	valid, err := l.IsValidAssetID(r, id)
	if err != nil {
		return err
	}
	if !valid {
		return invalidAssetID(id)
	}
	return nil
}

// move debits from and credits to. A self transfer leaves the balance as is.
func (l *Ledger) move(txn state.Txn, from, to principal.Principal, id asset.ID, amount uint64) error {
	fromKey := BalanceKey(id, from)
	fromBalance, err := readAmount(txn, fromKey)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return InsufficientBalance(id, fromBalance, amount)
	}
	if from == to {
		return nil
	}
	toKey := BalanceKey(id, to)
	toBalance, err := readAmount(txn, toKey)
	if err != nil {
		return err
	}
	// Conservation bounds every balance by the supply, so this cannot wrap.
	if err := writeAmount(txn, fromKey, fromBalance-amount); err != nil {
		return err
	}
	return writeAmount(txn, toKey, toBalance+amount)
}

func readAmount(r state.Reader, key string) (uint64, error) {
	amount, _, err := state.GetRecord[uint64](r, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	return amount, nil
}

// writeAmount stores amount, deleting the key at zero since zero and absence
// are equivalent.
func writeAmount(txn state.Txn, key string, amount uint64) error {
	if amount == 0 {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
		return nil
	}
	if err := state.PutRecord(txn, key, amount); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
