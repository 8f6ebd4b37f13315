package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/platform/persistence"
)

// profileRowID keys the singleton business profile row.
const profileRowID = "business_profile"

// ProfileRepository stores the business profile as a singleton jsonb row.
type ProfileRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(logger *slog.Logger, db *persistence.PostgresDB) *ProfileRepository {
	return &ProfileRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get fetches the business profile. Returns nil without error when no
// profile row exists yet.
func (r *ProfileRepository) Get(ctx context.Context) (*profile.BusinessProfile, error) {
	var data []byte
	err := r.querier.QueryRow(ctx, `SELECT data FROM business_profile WHERE id = $1`, profileRowID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get remote profile", "error", err)
		return nil, fmt.Errorf("failed to get remote profile: %w", err)
	}

	var p profile.BusinessProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode remote profile: %w", err)
	}
	return &p, nil
}

// Save replaces the singleton profile row, inserting it when absent.
func (r *ProfileRepository) Save(ctx context.Context, p profile.BusinessProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = r.querier.Exec(ctx, `
		INSERT INTO business_profile (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, profileRowID, data)
	if err != nil {
		r.logger.Error("Failed to save remote profile", "error", err)
		return fmt.Errorf("failed to save remote profile: %w", err)
	}

	return nil
}
