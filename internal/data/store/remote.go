package store

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	datamongo "github.com/accusim-bookkeeping/internal/data/mongo"
	"github.com/accusim-bookkeeping/internal/data/postgres"
	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
	"github.com/accusim-bookkeeping/internal/platform/persistence"
)

// remoteBackends composes the PostgreSQL row repositories with the MongoDB
// voucher history into one RemoteStore.
type remoteBackends struct {
	db       *persistence.PostgresDB
	ledgers  *postgres.LedgerRepository
	stock    *postgres.StockRepository
	profiles *postgres.ProfileRepository
	vouchers *datamongo.VoucherRepository
	logger   *slog.Logger
}

// NewRemote wires the concrete remote repositories into a RemoteStore.
func NewRemote(logger *slog.Logger, db *persistence.PostgresDB, mongoDB *persistence.MongoDB) RemoteStore {
	return &remoteBackends{
		db:       db,
		ledgers:  postgres.NewLedgerRepository(logger, db),
		stock:    postgres.NewStockRepository(logger, db),
		profiles: postgres.NewProfileRepository(logger, db),
		vouchers: datamongo.NewVoucherRepository(logger, mongoDB.Database()),
		logger:   logger,
	}
}

func (r *remoteBackends) LoadAll(ctx context.Context) ([]ledger.Ledger, []stock.Item, []voucher.Voucher, *profile.BusinessProfile, error) {
	ledgers, err := r.ledgers.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	items, err := r.stock.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	vouchers, err := r.vouchers.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	prof, err := r.profiles.Get(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return ledgers, items, vouchers, prof, nil
}

// Seed inserts the defaults in one transaction on the PostgreSQL side so a
// half-seeded remote cannot result from a mid-seed failure.
func (r *remoteBackends) Seed(ctx context.Context, ledgers []ledger.Ledger, items []stock.Item, prof profile.BusinessProfile) error {
	err := r.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txLedgers := r.ledgers.WithTx(tx)
		for _, l := range ledgers {
			if err := txLedgers.Upsert(ctx, l); err != nil {
				return err
			}
		}
		txStock := r.stock.WithTx(tx)
		for _, item := range items {
			if err := txStock.Upsert(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Profile lives in its own singleton row; a failure here leaves
	// ledgers/stock seeded, which a later SaveProfile repairs.
	return r.profiles.Save(ctx, prof)
}

func (r *remoteBackends) InsertVoucher(ctx context.Context, v voucher.Voucher) error {
	return r.vouchers.Insert(ctx, v)
}

func (r *remoteBackends) UpsertLedger(ctx context.Context, l ledger.Ledger) error {
	return r.ledgers.Upsert(ctx, l)
}

func (r *remoteBackends) UpsertStock(ctx context.Context, item stock.Item) error {
	return r.stock.Upsert(ctx, item)
}

func (r *remoteBackends) SaveProfile(ctx context.Context, p profile.BusinessProfile) error {
	return r.profiles.Save(ctx, p)
}
