package voucher

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/accusim-bookkeeping/internal/domain/shared"
)

// Common proposal validation errors
var (
	ErrNoEntries          = errors.New("proposal carries no entries")
	ErrInvalidVoucherType = errors.New("proposal carries an unknown voucher type")
	ErrInvalidEntry       = errors.New("proposal entry must have a positive amount and a Dr/Cr side")
)

// ProposedEntry is one extracted Dr/Cr line, referencing a ledger by name only.
type ProposedEntry struct {
	LedgerName string           `json:"ledger_name"`
	Amount     decimal.Decimal  `json:"amount"`
	Side       shared.EntrySide `json:"type"`
}

// Verification is the extraction service's own judgement of the transaction.
type Verification struct {
	Status  shared.VerificationStatus `json:"status"`
	Message string                    `json:"message"`
}

// StockUpdate describes a quantity change to one named stock item.
// QuantityChange is negative for sales and positive for purchases.
type StockUpdate struct {
	ItemName       string `json:"item_name"`
	QuantityChange int64  `json:"quantity_change"`
}

// Proposal is the structured transaction returned by the extraction service,
// pending review and posting. It is a Voucher minus id and number, plus the
// AI's classification, verification, and narrative metadata.
type Proposal struct {
	Date                 string                `json:"date"`
	Type                 shared.VoucherType    `json:"type"`
	Branch               string                `json:"branch"`
	Narration            string                `json:"narration"`
	Entries              []ProposedEntry       `json:"entries"`
	Classification       shared.Classification `json:"classification"`
	ClassificationReason string                `json:"classification_reason"`
	Verification         Verification          `json:"verification"`
	Explanation          string                `json:"explanation"`
	Summary              string                `json:"summary"`
	StockUpdate          *StockUpdate          `json:"stock_update,omitempty"`
}

// Validate checks the structural invariants a proposal must satisfy before
// posting. Balance is deliberately not enforced here; ValidateEntries exposes
// it separately so callers can decide whether to block or only warn.
func (p *Proposal) Validate() error {
	if len(p.Entries) == 0 {
		return ErrNoEntries
	}
	if !p.Type.IsValid() {
		return ErrInvalidVoucherType
	}
	for _, e := range p.Entries {
		if !e.Side.IsValid() || !e.Amount.IsPositive() {
			return ErrInvalidEntry
		}
	}
	return nil
}

// EntryTotals runs the double-entry balance check over the proposal's entries.
func (p *Proposal) EntryTotals() EntryTotals {
	entries := make([]Entry, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = Entry{LedgerName: e.LedgerName, Amount: e.Amount, Side: e.Side}
	}
	return ValidateEntries(entries)
}
