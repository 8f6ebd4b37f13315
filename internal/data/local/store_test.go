package local

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	store, err := NewStore(logger, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_EmptyReads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Ledgers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Stock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Vouchers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Profile(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ledgers := ledger.Defaults()
	require.NoError(t, store.SaveLedgers(ctx, ledgers))

	loaded, ok, err := store.Ledgers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, len(ledgers))
	assert.Equal(t, ledgers[0].ID, loaded[0].ID)
	assert.Equal(t, ledgers[0].Name, loaded[0].Name)
	assert.True(t, ledgers[0].Balance.Equal(loaded[0].Balance))

	items := stock.Defaults()
	require.NoError(t, store.SaveStock(ctx, items))
	loadedItems, ok, err := store.Stock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, loadedItems, len(items))

	prof := profile.Default()
	require.NoError(t, store.SaveProfile(ctx, prof))
	loadedProfile, ok, err := store.Profile(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, prof, loadedProfile)
}

func TestStore_OverwriteReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ledgers := ledger.Defaults()
	require.NoError(t, store.SaveLedgers(ctx, ledgers))

	ledgers[1].Balance = decimal.NewFromInt(99999)
	require.NoError(t, store.SaveLedgers(ctx, ledgers[:3]))

	loaded, ok, err := store.Ledgers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, 3)
	assert.True(t, decimal.NewFromInt(99999).Equal(loaded[1].Balance))
}

func TestStore_VoucherHistoryOrderSurvives(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	history := []voucher.Voucher{
		{Number: "V-0002", Narration: "second"},
		{Number: "V-0001", Narration: "first"},
	}
	require.NoError(t, store.SaveVouchers(ctx, history))

	loaded, ok, err := store.Vouchers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, "V-0002", loaded[0].Number)
	assert.Equal(t, "V-0001", loaded[1].Number)
}

func TestStore_CorruptAggregateFallsBackToAbsent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO aggregates (key, data) VALUES (?, ?)`, keyLedgers, "{not json")
	require.NoError(t, err)

	_, ok, err := store.Ledgers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewStore(logger, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveProfile(ctx, profile.Default()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(logger, path)
	require.NoError(t, err)
	defer reopened.Close()

	p, ok, err := reopened.Profile(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "RS Traders & Co", p.Name)
}
