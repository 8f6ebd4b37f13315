// Package voucher defines posted accounting transactions and the AI-proposed
// form they are created from.
package voucher

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accusim-bookkeeping/internal/domain/shared"
)

// Entry is one Dr/Cr line of a voucher. LedgerName is the join key coming
// from the extraction service; LedgerID is resolved and stored at posting
// time and stays uuid.Nil when the name did not match any ledger.
type Entry struct {
	LedgerID   uuid.UUID        `json:"ledger_id" bson:"ledger_id"`
	LedgerName string           `json:"ledger_name" bson:"ledger_name"`
	Amount     decimal.Decimal  `json:"amount" bson:"amount"`
	Side       shared.EntrySide `json:"type" bson:"type"`
}

// Voucher is one posted accounting transaction. Vouchers are immutable once
// created and form an append-only history.
type Voucher struct {
	ID                    uuid.UUID                 `json:"id" bson:"id"`
	Number                string                    `json:"number" bson:"number"`
	Date                  string                    `json:"date" bson:"date"`
	Type                  shared.VoucherType        `json:"type" bson:"type"`
	Branch                string                    `json:"branch" bson:"branch"`
	Narration             string                    `json:"narration" bson:"narration"`
	Entries               []Entry                   `json:"entries" bson:"entries"`
	Classification        shared.Classification     `json:"classification" bson:"classification"`
	ClassificationReason  string                    `json:"classification_reason" bson:"classification_reason"`
	AIVerificationStatus  shared.VerificationStatus `json:"ai_verification_status" bson:"ai_verification_status"`
	AIVerificationMessage string                    `json:"ai_verification_message" bson:"ai_verification_message"`
	AIExplanation         string                    `json:"ai_explanation" bson:"ai_explanation"`
	SummaryForOwner       string                    `json:"summary_for_owner" bson:"summary_for_owner"`
}

// EntryTotals carries the outcome of the double-entry balance check.
type EntryTotals struct {
	DrTotal  decimal.Decimal `json:"dr_total"`
	CrTotal  decimal.Decimal `json:"cr_total"`
	Balanced bool            `json:"balanced"`
}

// ValidateEntries sums both sides of a set of entries and reports whether
// they satisfy the double-entry balance law (Dr total equals Cr total).
func ValidateEntries(entries []Entry) EntryTotals {
	drTotal := decimal.Zero
	crTotal := decimal.Zero
	for _, e := range entries {
		switch e.Side {
		case shared.Debit:
			drTotal = drTotal.Add(e.Amount)
		case shared.Credit:
			crTotal = crTotal.Add(e.Amount)
		}
	}
	return EntryTotals{
		DrTotal:  drTotal,
		CrTotal:  crTotal,
		Balanced: drTotal.Equal(crTotal),
	}
}
