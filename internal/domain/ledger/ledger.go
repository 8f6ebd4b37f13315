// Package ledger defines the ledger aggregate: named account buckets holding
// a running balance and a Dr/Cr orientation.
package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accusim-bookkeeping/internal/domain/shared"
)

// Group is the account group a ledger belongs to.
type Group string

const (
	GroupCapital            Group = "Capital"
	GroupCurrentAssets      Group = "Current Assets"
	GroupCurrentLiabilities Group = "Current Liabilities"
	GroupIncome             Group = "Income"
	GroupExpenses           Group = "Expenses"
	GroupTax                Group = "Tax"
)

// IsValid checks if the group is a known value
func (g Group) IsValid() bool {
	switch g {
	case GroupCapital, GroupCurrentAssets, GroupCurrentLiabilities, GroupIncome, GroupExpenses, GroupTax:
		return true
	}
	return false
}

// Ledger represents a named account with a running balance. The balance is
// signed: increases land on the ledger's natural side (Dr for asset and
// expense-like groups, Cr for liability and income-like groups), decreases
// can push it negative.
type Ledger struct {
	ID          uuid.UUID        `json:"id" bson:"id"`
	Name        string           `json:"name" bson:"name"`
	Group       Group            `json:"group" bson:"group"`
	Balance     decimal.Decimal  `json:"balance" bson:"balance"`
	BalanceType shared.EntrySide `json:"balance_type" bson:"balance_type"`
}

// ErrLedgerNotFound is returned when a ledger cannot be resolved by id or name
type ErrLedgerNotFound struct {
	Name string
	ID   uuid.UUID
}

func (e ErrLedgerNotFound) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("ledger not found: %s", e.Name)
	}
	return fmt.Sprintf("ledger not found: %s", e.ID)
}

// DebitIncreases reports whether a Dr entry increases this ledger's balance.
// Asset, expense and tax groups grow on the debit side. Ledgers whose name
// mentions "Purchase" are treated the same way even when grouped elsewhere,
// matching how purchase accounts are conventionally kept.
func (l *Ledger) DebitIncreases() bool {
	switch l.Group {
	case GroupCurrentAssets, GroupExpenses, GroupTax, "Purchase":
		return true
	}
	return containsFold(l.Name, "Purchase")
}

// Apply returns a copy of the ledger with one entry's effect applied to the
// balance. The receiver is never mutated.
func (l *Ledger) Apply(amount decimal.Decimal, side shared.EntrySide) Ledger {
	updated := *l
	increases := shared.Credit
	if l.DebitIncreases() {
		increases = shared.Debit
	}
	if side == increases {
		updated.Balance = l.Balance.Add(amount)
	} else {
		updated.Balance = l.Balance.Sub(amount)
	}
	return updated
}
