package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements the payment.Repository interface for PostgreSQL
type PaymentRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewPaymentRepository creates a new PostgreSQL payment repository
func NewPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.Repository {
	return &PaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls
func (r *PaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	return &PaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a payment. The recorded_at timestamp is assigned by the
// database server so settlement receipts carry store time, not process time.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (id, entity_id, amount, note, archived, recorded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING recorded_at
	`

	err := r.querier.QueryRow(ctx, query,
		p.ID,
		p.EntityID,
		p.Amount,
		p.Note,
		p.Archived,
	).Scan(&p.RecordedAt)
	if err != nil {
		r.logger.Error("Failed to create payment", "entity_id", p.EntityID.String(), "error", err)
		return fmt.Errorf("failed to create payment: %w", persistence.MapError(err))
	}

	return nil
}

// GetActiveForEntity returns the entity's unarchived payments in recording order
func (r *PaymentRepository) GetActiveForEntity(ctx context.Context, entityID uuid.UUID) ([]*payment.Payment, error) {
	query := `
		SELECT id, entity_id, amount, note, archived, recorded_at
		FROM payments
		WHERE entity_id = $1 AND archived = FALSE
		ORDER BY recorded_at, id
	`

	rows, err := r.querier.Query(ctx, query, entityID)
	if err != nil {
		r.logger.Error("Failed to list active payments", "entity_id", entityID.String(), "error", err)
		return nil, fmt.Errorf("failed to list active payments: %w", persistence.MapError(err))
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.EntityID, &p.Amount, &p.Note, &p.Archived, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}

	return payments, nil
}

// ArchiveForEntity marks every active payment for the entity as archived.
// Runs inside the settlement transaction when reached via WithTx.
func (r *PaymentRepository) ArchiveForEntity(ctx context.Context, entityID uuid.UUID) (int64, error) {
	query := `UPDATE payments SET archived = TRUE WHERE entity_id = $1 AND archived = FALSE`

	result, err := r.querier.Exec(ctx, query, entityID)
	if err != nil {
		r.logger.Error("Failed to archive payments", "entity_id", entityID.String(), "error", err)
		return 0, fmt.Errorf("failed to archive payments: %w", persistence.MapError(err))
	}

	return result.RowsAffected(), nil
}
