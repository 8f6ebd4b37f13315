// Package store is the persistence facade behind the application state: one
// always-on local SQLite store (the durability floor) plus an optional
// remote replica pair selected once at startup. Remote reads degrade to
// local on failure; remote writes are best-effort last-writer-wins and never
// roll back a completed local write.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// ErrRemoteSync marks persistence errors where the local write succeeded but
// remote replication did not. Callers treat it as a degraded success: local
// state stays authoritative for the running session.
var ErrRemoteSync = errors.New("remote sync failed")

// Snapshot is the full persisted state handed to the coordinator at startup.
type Snapshot struct {
	Ledgers       []ledger.Ledger
	Stock         []stock.Item
	Vouchers      []voucher.Voucher
	Profile       profile.BusinessProfile
	IsEmptyRemote bool
}

// Store implements the dual-backend persistence contract.
type Store struct {
	local  LocalStore
	remote RemoteStore // nil when remote mode is disabled
	pool   *ants.Pool
	logger *slog.Logger
}

// New creates the persistence facade. remote may be nil (local-only mode).
// poolSize bounds how many remote upserts run concurrently during
// PersistPostedVoucher.
func New(logger *slog.Logger, local LocalStore, remote RemoteStore, poolSize int) (*Store, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync worker pool: %w", err)
	}
	return &Store{
		local:  local,
		remote: remote,
		pool:   pool,
		logger: logger,
	}, nil
}

// RemoteEnabled reports whether a remote replica is configured.
func (s *Store) RemoteEnabled() bool {
	return s.remote != nil
}

// Close releases the sync worker pool.
func (s *Store) Close() {
	s.pool.Release()
}

// LoadAll reads the four aggregates. Remote is tried first when enabled; any
// remote failure degrades to the local store with a logged warning. A remote
// store holding zero ledgers and zero stock items is treated as fresh: the
// built-in defaults are returned with IsEmptyRemote set so the caller can
// seed exactly once.
func (s *Store) LoadAll(ctx context.Context) (*Snapshot, error) {
	if s.remote != nil {
		snap, err := s.loadRemote(ctx)
		if err == nil {
			return snap, nil
		}
		s.logger.Warn("Remote load failed, falling back to local store", "error", err)
	}
	return s.loadLocal(ctx)
}

func (s *Store) loadRemote(ctx context.Context) (*Snapshot, error) {
	ledgers, items, vouchers, prof, err := s.remote.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(ledgers) == 0 && len(items) == 0 {
		s.logger.Info("Remote store is empty, returning built-in defaults")
		return &Snapshot{
			Ledgers:       ledger.Defaults(),
			Stock:         stock.Defaults(),
			Vouchers:      []voucher.Voucher{},
			Profile:       profile.Default(),
			IsEmptyRemote: true,
		}, nil
	}

	snap := &Snapshot{
		Ledgers:  ledgers,
		Stock:    items,
		Vouchers: vouchers,
		Profile:  profile.Default(),
	}
	if prof != nil {
		snap.Profile = *prof
	}
	if snap.Vouchers == nil {
		snap.Vouchers = []voucher.Voucher{}
	}
	return snap, nil
}

// loadLocal substitutes the built-in default for each aggregate that was
// never written or fails to parse; other aggregates are unaffected.
func (s *Store) loadLocal(ctx context.Context) (*Snapshot, error) {
	ledgers, ok, err := s.local.Ledgers(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		ledgers = ledger.Defaults()
	}

	items, ok, err := s.local.Stock(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		items = stock.Defaults()
	}

	vouchers, ok, err := s.local.Vouchers(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		vouchers = []voucher.Voucher{}
	}

	prof, ok, err := s.local.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		prof = profile.Default()
	}

	return &Snapshot{
		Ledgers:  ledgers,
		Stock:    items,
		Vouchers: vouchers,
		Profile:  prof,
	}, nil
}

// SeedIfEmpty inserts the given defaults into the remote store. The caller
// gates this on Snapshot.IsEmptyRemote so it runs at most once per cold
// start; no-op in local-only mode.
func (s *Store) SeedIfEmpty(ctx context.Context, ledgers []ledger.Ledger, items []stock.Item, prof profile.BusinessProfile) error {
	if s.remote == nil {
		return nil
	}
	if err := s.remote.Seed(ctx, ledgers, items, prof); err != nil {
		return fmt.Errorf("%w: seeding: %v", ErrRemoteSync, err)
	}
	s.logger.Info("Seeded remote store", "ledgers", len(ledgers), "stock", len(items))
	return nil
}

// PersistPostedVoucher makes one posting durable. The local write-through
// happens first and its failure is fatal; remote replication then fans out
// over the worker pool and any failure is reported as ErrRemoteSync without
// undoing the local write.
func (s *Store) PersistPostedVoucher(ctx context.Context, v voucher.Voucher, ledgers []ledger.Ledger, items []stock.Item) error {
	history, _, err := s.local.Vouchers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read local voucher history: %w", err)
	}
	history = append([]voucher.Voucher{v}, history...)

	if err := s.local.SaveVouchers(ctx, history); err != nil {
		return err
	}
	if err := s.local.SaveLedgers(ctx, ledgers); err != nil {
		return err
	}
	if err := s.local.SaveStock(ctx, items); err != nil {
		return err
	}

	if s.remote == nil {
		return nil
	}

	if err := s.remote.InsertVoucher(ctx, v); err != nil {
		return fmt.Errorf("%w: voucher insert: %v", ErrRemoteSync, err)
	}
	if err := s.replicateCollections(ctx, ledgers, items); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteSync, err)
	}
	return nil
}

// replicateCollections upserts every ledger and stock item concurrently,
// bounded by the worker pool. The first error wins; remaining upserts still
// run to completion so the replica diverges as little as possible.
func (s *Store) replicateCollections(ctx context.Context, ledgers []ledger.Ledger, items []stock.Item) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for _, l := range ledgers {
		l := l
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			record(s.remote.UpsertLedger(ctx, l))
		}); err != nil {
			wg.Done()
			record(err)
		}
	}
	for _, item := range items {
		item := item
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			record(s.remote.UpsertStock(ctx, item))
		}); err != nil {
			wg.Done()
			record(err)
		}
	}

	wg.Wait()
	return firstErr
}

// UpdateLedger replaces one ledger by id in both tiers and returns the full
// updated local collection. A missing id fails before anything is written.
func (s *Store) UpdateLedger(ctx context.Context, l ledger.Ledger) ([]ledger.Ledger, error) {
	ledgers, ok, err := s.local.Ledgers(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		ledgers = ledger.Defaults()
	}

	found := false
	for i := range ledgers {
		if ledgers[i].ID == l.ID {
			ledgers[i] = l
			found = true
			break
		}
	}
	if !found {
		return nil, ledger.ErrLedgerNotFound{ID: l.ID}
	}

	if err := s.local.SaveLedgers(ctx, ledgers); err != nil {
		return nil, err
	}

	if s.remote != nil {
		if err := s.remote.UpsertLedger(ctx, l); err != nil {
			return ledgers, fmt.Errorf("%w: ledger upsert: %v", ErrRemoteSync, err)
		}
	}
	return ledgers, nil
}

// SaveProfile replaces the business profile in both tiers.
func (s *Store) SaveProfile(ctx context.Context, p profile.BusinessProfile) error {
	if err := s.local.SaveProfile(ctx, p); err != nil {
		return err
	}
	if s.remote != nil {
		if err := s.remote.SaveProfile(ctx, p); err != nil {
			return fmt.Errorf("%w: profile save: %v", ErrRemoteSync, err)
		}
	}
	return nil
}
