// Package local implements the always-on local store: one SQLite file with a
// single key/blob table holding each aggregate as a serialized JSON document.
// It is the durability floor: every mutation is written here before any
// remote replication is attempted.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// Aggregate keys. One row per aggregate, overwritten wholesale.
const (
	keyLedgers  = "accusim_ledgers"
	keyStock    = "accusim_stock"
	keyVouchers = "accusim_vouchers"
	keyProfile  = "accusim_profile"
)

const schema = `
CREATE TABLE IF NOT EXISTS aggregates (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is the SQLite-backed local aggregate store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// aggregate table exists.
func NewStore(logger *slog.Logger, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local store schema: %w", err)
	}
	logger.Info("Local store ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// load deserializes one aggregate blob into dest. ok is false when the key
// has never been written, or when the stored blob fails to parse; a corrupt
// aggregate is logged and treated as absent so the caller substitutes the
// built-in seed instead of crashing.
func (s *Store) load(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM aggregates WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read aggregate %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		s.logger.Warn("Stored aggregate is corrupt, falling back to defaults", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// save overwrites one aggregate blob wholesale.
func (s *Store) save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize aggregate %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO aggregates (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to write aggregate %q: %w", key, err)
	}
	return nil
}

// Ledgers loads the ledger collection. ok is false when nothing usable is stored.
func (s *Store) Ledgers(ctx context.Context) ([]ledger.Ledger, bool, error) {
	var ledgers []ledger.Ledger
	ok, err := s.load(ctx, keyLedgers, &ledgers)
	return ledgers, ok, err
}

// SaveLedgers overwrites the ledger collection.
func (s *Store) SaveLedgers(ctx context.Context, ledgers []ledger.Ledger) error {
	return s.save(ctx, keyLedgers, ledgers)
}

// Stock loads the stock collection. ok is false when nothing usable is stored.
func (s *Store) Stock(ctx context.Context) ([]stock.Item, bool, error) {
	var items []stock.Item
	ok, err := s.load(ctx, keyStock, &items)
	return items, ok, err
}

// SaveStock overwrites the stock collection.
func (s *Store) SaveStock(ctx context.Context, items []stock.Item) error {
	return s.save(ctx, keyStock, items)
}

// Vouchers loads the voucher history, newest first as stored.
func (s *Store) Vouchers(ctx context.Context) ([]voucher.Voucher, bool, error) {
	var vouchers []voucher.Voucher
	ok, err := s.load(ctx, keyVouchers, &vouchers)
	return vouchers, ok, err
}

// SaveVouchers overwrites the voucher history.
func (s *Store) SaveVouchers(ctx context.Context, vouchers []voucher.Voucher) error {
	return s.save(ctx, keyVouchers, vouchers)
}

// Profile loads the business profile. ok is false when nothing usable is stored.
func (s *Store) Profile(ctx context.Context) (profile.BusinessProfile, bool, error) {
	var p profile.BusinessProfile
	ok, err := s.load(ctx, keyProfile, &p)
	return p, ok, err
}

// SaveProfile overwrites the business profile.
func (s *Store) SaveProfile(ctx context.Context, p profile.BusinessProfile) error {
	return s.save(ctx, keyProfile, p)
}
