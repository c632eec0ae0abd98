package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EntityRepository implements the entity.Repository interface for PostgreSQL
type EntityRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEntityRepository creates a new PostgreSQL courier/company repository
func NewEntityRepository(logger *slog.Logger, db *persistence.PostgresDB) entity.Repository {
	return &EntityRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new courier or company
func (r *EntityRepository) Create(ctx context.Context, ent *entity.Entity) error {
	query := `
		INSERT INTO entities (id, role, name, phone, commission_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		ent.ID,
		ent.Role,
		ent.Name,
		ent.Phone,
		ent.CommissionRate,
		ent.CreatedAt,
		ent.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create entity", "name", ent.Name, "error", err)
		return fmt.Errorf("failed to create entity: %w", persistence.MapError(err))
	}

	return nil
}

// GetByID retrieves a courier or company by its ID
func (r *EntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Entity, error) {
	query := `
		SELECT id, role, name, phone, commission_rate, created_at, updated_at
		FROM entities
		WHERE id = $1
	`

	var ent entity.Entity
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&ent.ID,
		&ent.Role,
		&ent.Name,
		&ent.Phone,
		&ent.CommissionRate,
		&ent.CreatedAt,
		&ent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrEntityNotFound{EntityID: id}
		}
		r.logger.Error("Failed to get entity", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get entity: %w", persistence.MapError(err))
	}

	return &ent, nil
}
