// Package postgres provides PostgreSQL implementations of the remote
// replication repositories. Each aggregate member is stored as one keyed row
// with a jsonb payload; writes are insert-or-replace with last-writer-wins
// semantics and no conflict detection.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/platform/persistence"
)

// LedgerRepository stores ledgers as (id, data jsonb) rows.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) *LedgerRepository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that multiple writes
// commit or roll back together.
func (r *LedgerRepository) WithTx(tx pgx.Tx) *LedgerRepository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// List fetches the full ledger collection.
func (r *LedgerRepository) List(ctx context.Context) ([]ledger.Ledger, error) {
	rows, err := r.querier.Query(ctx, `SELECT data FROM ledgers`)
	if err != nil {
		r.logger.Error("Failed to list remote ledgers", "error", err)
		return nil, fmt.Errorf("failed to list remote ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []ledger.Ledger
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		var l ledger.Ledger
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("failed to decode ledger row: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}

	return ledgers, nil
}

// Upsert inserts or replaces one ledger row by id. Last writer wins.
func (r *LedgerRepository) Upsert(ctx context.Context, l ledger.Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	_, err = r.querier.Exec(ctx, `
		INSERT INTO ledgers (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, l.ID.String(), data)
	if err != nil {
		r.logger.Error("Failed to upsert remote ledger", "id", l.ID.String(), "error", err)
		return fmt.Errorf("failed to upsert remote ledger: %w", err)
	}

	return nil
}
