package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accusim-bookkeeping/internal/domain/shared"
)

// Defaults returns the built-in chart of accounts used to seed a fresh
// installation. IDs are deterministic so that repeated seeding of the same
// store targets the same rows.
func Defaults() []Ledger {
	mk := func(id, name string, group Group, balance int64, balanceType shared.EntrySide) Ledger {
		return Ledger{
			ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte("accusim:ledger:"+id)),
			Name:        name,
			Group:       group,
			Balance:     decimal.NewFromInt(balance),
			BalanceType: balanceType,
		}
	}

	return []Ledger{
		mk("l1", "Owner Capital", GroupCapital, 500000, shared.Credit),
		mk("l2", "Cash", GroupCurrentAssets, 50000, shared.Debit),
		mk("l3", "Bank Account", GroupCurrentAssets, 120000, shared.Debit),
		mk("l4", "Accounts Receivable", GroupCurrentAssets, 0, shared.Debit),
		mk("l5", "Accounts Payable", GroupCurrentLiabilities, 0, shared.Credit),
		mk("l6", "Sales Account", GroupIncome, 0, shared.Credit),
		mk("l7", "Purchase Account", GroupExpenses, 0, shared.Debit),
		mk("l8", "Rent Expense", GroupExpenses, 0, shared.Debit),
		mk("l9", "Electricity Expense", GroupExpenses, 0, shared.Debit),
		mk("l10", "Transport Expense", GroupExpenses, 0, shared.Debit),
		mk("l11", "GST Output", GroupTax, 0, shared.Credit),
		mk("l12", "GST Input", GroupTax, 0, shared.Debit),
	}
}
