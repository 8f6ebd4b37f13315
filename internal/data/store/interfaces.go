package store

import (
	"context"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// LocalStore is the always-on durable store. Reads report ok=false when an
// aggregate has never been written (or fails to parse), letting the facade
// substitute built-in defaults for that aggregate only.
type LocalStore interface {
	Ledgers(ctx context.Context) ([]ledger.Ledger, bool, error)
	SaveLedgers(ctx context.Context, ledgers []ledger.Ledger) error
	Stock(ctx context.Context) ([]stock.Item, bool, error)
	SaveStock(ctx context.Context, items []stock.Item) error
	Vouchers(ctx context.Context) ([]voucher.Voucher, bool, error)
	SaveVouchers(ctx context.Context, vouchers []voucher.Voucher) error
	Profile(ctx context.Context) (profile.BusinessProfile, bool, error)
	SaveProfile(ctx context.Context, p profile.BusinessProfile) error
}

// RemoteStore is the optional replication backend. All writes are
// last-writer-wins upserts keyed by record id; there is no conflict
// detection and no retry.
type RemoteStore interface {
	// LoadAll fetches the four remote collections. Profile is nil when the
	// singleton row does not exist yet.
	LoadAll(ctx context.Context) (ledgers []ledger.Ledger, items []stock.Item, vouchers []voucher.Voucher, prof *profile.BusinessProfile, err error)

	// Seed inserts the built-in defaults into a fresh remote store.
	Seed(ctx context.Context, ledgers []ledger.Ledger, items []stock.Item, prof profile.BusinessProfile) error

	InsertVoucher(ctx context.Context, v voucher.Voucher) error
	UpsertLedger(ctx context.Context, l ledger.Ledger) error
	UpsertStock(ctx context.Context, item stock.Item) error
	SaveProfile(ctx context.Context, p profile.BusinessProfile) error
}
