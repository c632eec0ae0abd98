// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the settlement ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shipmentColumns = `id, code, order_number, company_id, courier_id,
		total_amount, paid_amount, collected_amount, courier_commission, company_commission,
		status, created_at, updated_at,
		archived_for_company, archived_for_courier, company_archived_at, courier_archived_at`

// ShipmentRepository implements the shipment.Repository interface for PostgreSQL
type ShipmentRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewShipmentRepository creates a new PostgreSQL shipment repository
func NewShipmentRepository(logger *slog.Logger, db *persistence.PostgresDB) shipment.Repository {
	return &ShipmentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls
func (r *ShipmentRepository) WithTx(tx pgx.Tx) shipment.Repository {
	return &ShipmentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new shipment at intake
func (r *ShipmentRepository) Create(ctx context.Context, s *shipment.Shipment) error {
	query := `
		INSERT INTO shipments (id, code, order_number, company_id, courier_id,
			total_amount, paid_amount, collected_amount, courier_commission, company_commission,
			status, created_at, updated_at, archived_for_company, archived_for_courier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.querier.Exec(ctx, query,
		s.ID,
		s.Code,
		s.OrderNumber,
		s.CompanyID,
		s.CourierID,
		s.TotalAmount,
		s.PaidAmount,
		s.CollectedAmount,
		s.CourierCommission,
		s.CompanyCommission,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
		s.ArchivedForCompany,
		s.ArchivedForCourier,
	)
	if err != nil {
		r.logger.Error("Failed to create shipment", "code", s.Code, "error", err)
		return fmt.Errorf("failed to create shipment: %w", persistence.MapError(err))
	}

	return nil
}

// GetByID retrieves a shipment by its ID
func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	s, err := scanShipment(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipment.ErrShipmentNotFound{ShipmentID: id}
		}
		r.logger.Error("Failed to get shipment", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get shipment: %w", persistence.MapError(err))
	}

	return s, nil
}

// GetByCompanyID returns every shipment belonging to a company in creation
// order. The matcher depends on this order for its first-match-wins rule.
func (r *ShipmentRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*shipment.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE company_id = $1 ORDER BY created_at, id`

	rows, err := r.querier.Query(ctx, query, companyID)
	if err != nil {
		r.logger.Error("Failed to list company shipments", "company_id", companyID.String(), "error", err)
		return nil, fmt.Errorf("failed to list company shipments: %w", persistence.MapError(err))
	}
	defer rows.Close()

	return collectShipments(rows)
}

// GetActiveForEntity returns the shipments still contributing to an entity's
// ledger for the given role
func (r *ShipmentRepository) GetActiveForEntity(ctx context.Context, entityID uuid.UUID, role entity.Role) ([]*shipment.Shipment, error) {
	var query string
	if role == entity.RoleCourier {
		query = `SELECT ` + shipmentColumns + ` FROM shipments
			WHERE courier_id = $1 AND archived_for_courier = FALSE ORDER BY created_at, id`
	} else {
		query = `SELECT ` + shipmentColumns + ` FROM shipments
			WHERE company_id = $1 AND archived_for_company = FALSE ORDER BY created_at, id`
	}

	rows, err := r.querier.Query(ctx, query, entityID)
	if err != nil {
		r.logger.Error("Failed to list active shipments", "entity_id", entityID.String(), "role", string(role), "error", err)
		return nil, fmt.Errorf("failed to list active shipments: %w", persistence.MapError(err))
	}
	defer rows.Close()

	return collectShipments(rows)
}

// Update persists a mutated shipment (status transitions, courier assignment)
func (r *ShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	query := `
		UPDATE shipments
		SET courier_id = $1, paid_amount = $2, collected_amount = $3,
			courier_commission = $4, status = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		s.CourierID,
		s.PaidAmount,
		s.CollectedAmount,
		s.CourierCommission,
		s.Status,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update shipment", "id", s.ID.String(), "error", err)
		return fmt.Errorf("failed to update shipment: %w", persistence.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return shipment.ErrShipmentNotFound{ShipmentID: s.ID}
	}

	return nil
}

// ArchiveForRole flags the entity's unarchived finished shipments as archived
// for the role. Runs inside the settlement transaction when reached via WithTx.
func (r *ShipmentRepository) ArchiveForRole(ctx context.Context, entityID uuid.UUID, role entity.Role, finishedStatuses []string, archivedAt time.Time) (int64, error) {
	if len(finishedStatuses) == 0 {
		return 0, nil
	}

	var query string
	if role == entity.RoleCourier {
		query = `
			UPDATE shipments
			SET archived_for_courier = TRUE, courier_archived_at = $1, updated_at = $1
			WHERE courier_id = $2 AND archived_for_courier = FALSE AND status = ANY($3)
		`
	} else {
		query = `
			UPDATE shipments
			SET archived_for_company = TRUE, company_archived_at = $1, updated_at = $1
			WHERE company_id = $2 AND archived_for_company = FALSE AND status = ANY($3)
		`
	}

	result, err := r.querier.Exec(ctx, query, archivedAt, entityID, finishedStatuses)
	if err != nil {
		r.logger.Error("Failed to archive shipments", "entity_id", entityID.String(), "role", string(role), "error", err)
		return 0, fmt.Errorf("failed to archive shipments: %w", persistence.MapError(err))
	}

	return result.RowsAffected(), nil
}

func scanShipment(row pgx.Row) (*shipment.Shipment, error) {
	var s shipment.Shipment
	err := row.Scan(
		&s.ID,
		&s.Code,
		&s.OrderNumber,
		&s.CompanyID,
		&s.CourierID,
		&s.TotalAmount,
		&s.PaidAmount,
		&s.CollectedAmount,
		&s.CourierCommission,
		&s.CompanyCommission,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ArchivedForCompany,
		&s.ArchivedForCourier,
		&s.CompanyArchivedAt,
		&s.CourierArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectShipments(rows pgx.Rows) ([]*shipment.Shipment, error) {
	var shipments []*shipment.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shipments: %w", err)
	}
	return shipments, nil
}
