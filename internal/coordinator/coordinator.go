// Package coordinator owns the canonical in-memory snapshot of ledgers,
// stock, vouchers and the business profile, and routes every user-triggered
// mutation through the posting engine and the persistence facade.
//
// Mutations follow the optimistic-update contract: phase one computes the new
// state and adopts it in memory (aborting wholesale on any failure before
// anything changes); phase two persists it, and a phase-two failure is
// reported and remembered but never unwinds phase one.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/accusim-bookkeeping/internal/data/store"
	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
	"github.com/accusim-bookkeeping/internal/extraction"
	"github.com/accusim-bookkeeping/internal/posting"
)

// ErrNoInput is returned when an analysis request carries neither text nor
// an image.
var ErrNoInput = errors.New("provide a transaction description or a receipt image")

// Storage is the slice of the persistence facade the coordinator depends on.
type Storage interface {
	LoadAll(ctx context.Context) (*store.Snapshot, error)
	SeedIfEmpty(ctx context.Context, ledgers []ledger.Ledger, items []stock.Item, prof profile.BusinessProfile) error
	PersistPostedVoucher(ctx context.Context, v voucher.Voucher, ledgers []ledger.Ledger, items []stock.Item) error
	UpdateLedger(ctx context.Context, l ledger.Ledger) ([]ledger.Ledger, error)
	SaveProfile(ctx context.Context, p profile.BusinessProfile) error
	RemoteEnabled() bool
}

// State is the serializable view of the current snapshot.
type State struct {
	Ledgers       []ledger.Ledger         `json:"ledgers"`
	Stock         []stock.Item            `json:"stock"`
	Vouchers      []voucher.Voucher       `json:"vouchers"`
	Profile       profile.BusinessProfile `json:"profile"`
	RemoteEnabled bool                    `json:"remote_enabled"`
	LastSyncError string                  `json:"last_sync_error,omitempty"`
	SamplePrompts []string                `json:"sample_prompts"`
}

// PostResult is what a successful posting hands back to the caller: the
// finalized voucher, the collections after the update, and everything worth
// warning about.
type PostResult struct {
	Voucher           *voucher.Voucher    `json:"voucher"`
	Ledgers           []ledger.Ledger     `json:"ledgers"`
	Stock             []stock.Item        `json:"stock"`
	Totals            voucher.EntryTotals `json:"totals"`
	UnresolvedLedgers []string            `json:"unresolved_ledgers,omitempty"`
	UnresolvedStock   string              `json:"unresolved_stock,omitempty"`
	SyncError         string              `json:"sync_error,omitempty"`
}

// Coordinator is the single owner of the in-memory snapshot. The mutex keeps
// concurrent HTTP requests from observing a half-applied update; mutations
// are still processed one at a time.
type Coordinator struct {
	mu        sync.Mutex
	ledgers   []ledger.Ledger
	stock     []stock.Item
	vouchers  []voucher.Voucher
	profile   profile.BusinessProfile
	syncError string

	storage   Storage
	extractor extraction.Extractor
	logger    *slog.Logger
}

// New creates a coordinator. Load must be called before serving requests.
func New(logger *slog.Logger, storage Storage, extractor extraction.Extractor) *Coordinator {
	return &Coordinator{
		storage:   storage,
		extractor: extractor,
		logger:    logger,
	}
}

// Load pulls the persisted snapshot into memory and, when the remote store
// turned out to be fresh, seeds it with the defaults exactly once.
func (c *Coordinator) Load(ctx context.Context) error {
	snap, err := c.storage.LoadAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.ledgers = snap.Ledgers
	c.stock = snap.Stock
	c.vouchers = snap.Vouchers
	c.profile = snap.Profile
	c.mu.Unlock()

	if snap.IsEmptyRemote {
		if err := c.storage.SeedIfEmpty(ctx, snap.Ledgers, snap.Stock, snap.Profile); err != nil {
			// A failed seed degrades to local-only behavior for the
			// session; the next cold start retries it.
			c.logger.Error("Failed to seed remote store", "error", err)
			c.recordSyncError(err)
		}
	}

	c.logger.Info("State loaded",
		"ledgers", len(snap.Ledgers),
		"stock", len(snap.Stock),
		"vouchers", len(snap.Vouchers),
		"remote", c.storage.RemoteEnabled(),
	)
	return nil
}

// State returns a copy of the current snapshot for serialization. Reading
// never mutates the snapshot, so two reads without an intervening write are
// identical.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Ledgers:       append([]ledger.Ledger(nil), c.ledgers...),
		Stock:         append([]stock.Item(nil), c.stock...),
		Vouchers:      append([]voucher.Voucher(nil), c.vouchers...),
		Profile:       c.profile,
		RemoteEnabled: c.storage.RemoteEnabled(),
		LastSyncError: c.syncError,
		SamplePrompts: profile.SamplePrompts,
	}
}

// Analyze sends the free-form transaction description to the extraction
// service together with the current business context. At least one of text
// and image must be present.
func (c *Coordinator) Analyze(ctx context.Context, text string, image *extraction.InlineImage) (*voucher.Proposal, error) {
	if text == "" && image == nil {
		return nil, ErrNoInput
	}

	c.mu.Lock()
	ec := extraction.Context{
		BusinessName: c.profile.Name,
		Branches:     append([]string(nil), c.profile.Branches...),
	}
	for _, l := range c.ledgers {
		ec.LedgerNames = append(ec.LedgerNames, l.Name)
	}
	for i := range c.stock {
		ec.StockSummaries = append(ec.StockSummaries, c.stock[i].Summary())
	}
	c.mu.Unlock()

	return c.extractor.Extract(ctx, extraction.Input{Text: text, Image: image, Context: ec})
}

// PostVoucher turns an accepted proposal into a posted voucher. The
// in-memory snapshot is updated before persistence is attempted; a
// persistence failure after that point is surfaced on the result (and kept
// for the state endpoint) but the posting stands.
func (c *Coordinator) PostVoucher(ctx context.Context, p *voucher.Proposal) (*PostResult, error) {
	c.mu.Lock()
	result, err := posting.Post(p, c.ledgers, c.stock, len(c.vouchers))
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	// Optimistic adoption: memory first, durability second.
	c.ledgers = result.Ledgers
	c.stock = result.Stock
	c.vouchers = append([]voucher.Voucher{*result.Voucher}, c.vouchers...)
	c.mu.Unlock()

	if len(result.UnresolvedLedgers) > 0 {
		c.logger.Warn("Posting skipped entries naming unknown ledgers",
			"voucher", result.Voucher.Number,
			"unresolved", result.UnresolvedLedgers,
		)
	}
	if !result.Totals.Balanced {
		c.logger.Warn("Posted voucher is unbalanced",
			"voucher", result.Voucher.Number,
			"dr_total", result.Totals.DrTotal,
			"cr_total", result.Totals.CrTotal,
		)
	}

	out := &PostResult{
		Voucher:           result.Voucher,
		Ledgers:           result.Ledgers,
		Stock:             result.Stock,
		Totals:            result.Totals,
		UnresolvedLedgers: result.UnresolvedLedgers,
		UnresolvedStock:   result.UnresolvedStock,
	}

	if err := c.storage.PersistPostedVoucher(ctx, *result.Voucher, result.Ledgers, result.Stock); err != nil {
		c.logger.Error("Failed to persist posted voucher", "voucher", result.Voucher.Number, "error", err)
		c.recordSyncError(err)
		out.SyncError = err.Error()
	} else {
		c.clearSyncError()
	}

	return out, nil
}

// UpdateLedger applies a manual ledger override (opening balance, balance
// type) and reconciles the returned collection into memory. Fields left
// empty on the incoming ledger are carried over from the current one.
func (c *Coordinator) UpdateLedger(ctx context.Context, l ledger.Ledger) ([]ledger.Ledger, error) {
	c.mu.Lock()
	_, idx, ok := ledger.ResolveID(c.ledgers, l.ID)
	if !ok {
		c.mu.Unlock()
		return nil, ledger.ErrLedgerNotFound{ID: l.ID}
	}
	if l.Name == "" {
		l.Name = c.ledgers[idx].Name
	}
	if l.Group == "" {
		l.Group = c.ledgers[idx].Group
	}
	c.mu.Unlock()

	updated, err := c.storage.UpdateLedger(ctx, l)
	if err != nil && !errors.Is(err, store.ErrRemoteSync) {
		return nil, err
	}

	c.mu.Lock()
	c.ledgers = updated
	c.mu.Unlock()

	if errors.Is(err, store.ErrRemoteSync) {
		c.logger.Error("Ledger update did not replicate", "ledger", l.Name, "error", err)
		c.recordSyncError(err)
	}
	return updated, nil
}

// SaveProfile replaces the business profile wholesale.
func (c *Coordinator) SaveProfile(ctx context.Context, p profile.BusinessProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.profile = p
	c.mu.Unlock()

	if err := c.storage.SaveProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrRemoteSync) {
			c.logger.Error("Profile save did not replicate", "error", err)
			c.recordSyncError(err)
			return nil
		}
		return err
	}
	return nil
}

// RecordSyncError marks the session as degraded, surfacing the error through
// the state endpoint. The main package uses it when the remote tier fails to
// come up at startup; a later successful posting clears it.
func (c *Coordinator) RecordSyncError(err error) {
	c.recordSyncError(err)
}

func (c *Coordinator) recordSyncError(err error) {
	c.mu.Lock()
	c.syncError = err.Error()
	c.mu.Unlock()
}

func (c *Coordinator) clearSyncError() {
	c.mu.Lock()
	c.syncError = ""
	c.mu.Unlock()
}
