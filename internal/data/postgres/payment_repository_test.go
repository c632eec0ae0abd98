package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentRepository{querier: mock, logger: newTestLogger()}

	p := &payment.Payment{
		ID:       uuid.New(),
		EntityID: uuid.New(),
		Amount:   150,
		Note:     "closing settlement payment",
		Archived: true,
	}

	t.Run("success assigns server timestamp", func(t *testing.T) {
		serverTime := time.Now()
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(p.ID, p.EntityID, p.Amount, p.Note, p.Archived).
			WillReturnRows(pgxmock.NewRows([]string{"recorded_at"}).AddRow(serverTime))

		err := repo.Create(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, serverTime, p.RecordedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(p.ID, p.EntityID, p.Amount, p.Note, p.Archived).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, p)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentRepository_GetActiveForEntity(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentRepository{querier: mock, logger: newTestLogger()}
	entityID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`WHERE entity_id = \$1 AND archived = FALSE`).
		WithArgs(entityID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "entity_id", "amount", "note", "archived", "recorded_at"}).
			AddRow(uuid.New(), entityID, 40.0, "cash handover", false, now).
			AddRow(uuid.New(), entityID, 60.0, "", false, now))

	payments, err := repo.GetActiveForEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 40.0, payments[0].Amount)
	assert.Equal(t, 60.0, payments[1].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_ArchiveForEntity(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentRepository{querier: mock, logger: newTestLogger()}
	entityID := uuid.New()

	mock.ExpectExec(`UPDATE payments SET archived = TRUE`).
		WithArgs(entityID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := repo.ArchiveForEntity(ctx, entityID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
