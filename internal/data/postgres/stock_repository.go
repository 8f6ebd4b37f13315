package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/accusim-bookkeeping/internal/domain/stock"
	"github.com/accusim-bookkeeping/internal/platform/persistence"
)

// StockRepository stores stock items as (id, data jsonb) rows.
type StockRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewStockRepository creates a new PostgreSQL stock repository.
func NewStockRepository(logger *slog.Logger, db *persistence.PostgresDB) *StockRepository {
	return &StockRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that multiple writes
// commit or roll back together.
func (r *StockRepository) WithTx(tx pgx.Tx) *StockRepository {
	return &StockRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// List fetches the full stock collection.
func (r *StockRepository) List(ctx context.Context) ([]stock.Item, error) {
	rows, err := r.querier.Query(ctx, `SELECT data FROM stock`)
	if err != nil {
		r.logger.Error("Failed to list remote stock", "error", err)
		return nil, fmt.Errorf("failed to list remote stock: %w", err)
	}
	defer rows.Close()

	var items []stock.Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		var item stock.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to decode stock row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stock rows: %w", err)
	}

	return items, nil
}

// Upsert inserts or replaces one stock row by id. Last writer wins.
func (r *StockRepository) Upsert(ctx context.Context, item stock.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode stock item: %w", err)
	}

	_, err = r.querier.Exec(ctx, `
		INSERT INTO stock (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, item.ID.String(), data)
	if err != nil {
		r.logger.Error("Failed to upsert remote stock item", "id", item.ID.String(), "error", err)
		return fmt.Errorf("failed to upsert remote stock item: %w", err)
	}

	return nil
}
