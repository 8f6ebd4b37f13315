package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accusim-bookkeeping/internal/domain/profile"
)

func TestProfileRepository_Get(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ProfileRepository{querier: mock, logger: newTestLogger()}

	query := `SELECT data FROM business_profile WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		p := profile.Default()
		p.Name = "Acme Traders"
		data, err := json.Marshal(p)
		require.NoError(t, err)

		mock.ExpectQuery(query).
			WithArgs(profileRowID).
			WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Acme Traders", got.Name)
		assert.Equal(t, p.Branches, got.Branches)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no profile row", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(profileRowID).
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(profileRowID).
			WillReturnError(expectedErr)

		_, err := repo.Get(ctx)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_Save(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ProfileRepository{querier: mock, logger: newTestLogger()}

	p := profile.Default()
	p.Name = "Acme Traders"

	query := `INSERT INTO business_profile \(id, data\) VALUES \(\$1, \$2\)
		ON CONFLICT \(id\) DO UPDATE SET data = EXCLUDED\.data, updated_at = now\(\)`

	t.Run("success", func(t *testing.T) {
		data, err := json.Marshal(p)
		require.NoError(t, err)

		mock.ExpectExec(query).
			WithArgs(profileRowID, data).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Save(ctx, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(profileRowID, pgxmock.AnyArg()).
			WillReturnError(expectedErr)

		err := repo.Save(ctx, p)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
