package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines payment persistence operations
type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// GetActiveForEntity returns the entity's unarchived payments
	GetActiveForEntity(ctx context.Context, entityID uuid.UUID) ([]*Payment, error)

	// ArchiveForEntity marks every active payment for the entity as archived,
	// returning the number archived. Callers run this inside the settlement
	// transaction via WithTx.
	ArchiveForEntity(ctx context.Context, entityID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Repository
}
