// Package posting turns accepted voucher proposals into finalized,
// balance-affecting vouchers. Post is a pure function over the current
// ledger/stock snapshot: it never performs I/O and never mutates its inputs,
// so the caller can adopt the result optimistically and persist afterwards.
package posting

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// Result carries the finalized voucher together with the full updated
// collections (not deltas) and everything the caller needs to warn on.
type Result struct {
	Voucher           *voucher.Voucher
	Ledgers           []ledger.Ledger
	Stock             []stock.Item
	Totals            voucher.EntryTotals
	UnresolvedLedgers []string
	UnresolvedStock   string
}

// Post applies one proposal to the given snapshot. sequence is the number of
// vouchers already posted; the new voucher is numbered sequence+1, zero-padded
// to four digits.
//
// Entries naming a ledger absent from the chart of accounts keep their
// original name on the voucher for audit but contribute no balance change;
// their names are surfaced in Result.UnresolvedLedgers rather than failing
// the posting. The same best-effort policy applies to the stock update.
// Unbalanced proposals are not rejected here: Result.Totals carries the
// Dr/Cr sums so the caller can warn or block.
func Post(p *voucher.Proposal, ledgers []ledger.Ledger, items []stock.Item, sequence int) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proposal: %w", err)
	}

	updatedLedgers := make([]ledger.Ledger, len(ledgers))
	copy(updatedLedgers, ledgers)

	entries := make([]voucher.Entry, len(p.Entries))
	var unresolved []string
	for i, pe := range p.Entries {
		entry := voucher.Entry{
			LedgerName: pe.LedgerName,
			Amount:     pe.Amount,
			Side:       pe.Side,
		}
		if l, idx, ok := ledger.Resolve(updatedLedgers, pe.LedgerName); ok {
			entry.LedgerID = l.ID
			updatedLedgers[idx] = l.Apply(pe.Amount, pe.Side)
		} else {
			unresolved = append(unresolved, pe.LedgerName)
		}
		entries[i] = entry
	}

	updatedStock := make([]stock.Item, len(items))
	copy(updatedStock, items)

	unresolvedStock := ""
	if p.StockUpdate != nil {
		if item, idx, ok := stock.Resolve(updatedStock, p.StockUpdate.ItemName); ok {
			updatedStock[idx] = item.Adjust(p.StockUpdate.QuantityChange)
		} else {
			unresolvedStock = p.StockUpdate.ItemName
		}
	}

	v := &voucher.Voucher{
		ID:                    uuid.New(),
		Number:                fmt.Sprintf("V-%04d", sequence+1),
		Date:                  p.Date,
		Type:                  p.Type,
		Branch:                p.Branch,
		Narration:             p.Narration,
		Entries:               entries,
		Classification:        p.Classification,
		ClassificationReason:  p.ClassificationReason,
		AIVerificationStatus:  p.Verification.Status,
		AIVerificationMessage: p.Verification.Message,
		AIExplanation:         p.Explanation,
		SummaryForOwner:       p.Summary,
	}

	return &Result{
		Voucher:           v,
		Ledgers:           updatedLedgers,
		Stock:             updatedStock,
		Totals:            voucher.ValidateEntries(entries),
		UnresolvedLedgers: unresolved,
		UnresolvedStock:   unresolvedStock,
	}, nil
}
