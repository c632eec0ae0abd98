package shipment

import (
	"context"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines shipment persistence operations
type Repository interface {
	Create(ctx context.Context, s *Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// GetByCompanyID returns every shipment belonging to a company,
	// in stable creation order. Reconciliation partitions these by date.
	GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*Shipment, error)

	// GetActiveForEntity returns the shipments contributing to an entity's
	// ledger: those belonging to it whose role-specific archive flag is unset.
	GetActiveForEntity(ctx context.Context, entityID uuid.UUID, role entity.Role) ([]*Shipment, error)

	Update(ctx context.Context, s *Shipment) error

	// ArchiveForRole sets the role-specific archive flag on the entity's
	// unarchived shipments whose status is in the finished set, returning the
	// number of shipments archived. Callers run this inside the settlement
	// transaction via WithTx.
	ArchiveForRole(ctx context.Context, entityID uuid.UUID, role entity.Role, finishedStatuses []string, archivedAt time.Time) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrShipmentNotFound indicates a missing shipment
type ErrShipmentNotFound struct {
	ShipmentID uuid.UUID
}

func (e ErrShipmentNotFound) Error() string {
	return "shipment not found: " + e.ShipmentID.String()
}

// Is implements the errors.Is interface for ErrShipmentNotFound
func (e ErrShipmentNotFound) Is(target error) bool {
	t, ok := target.(ErrShipmentNotFound)
	if !ok {
		return false
	}
	if t.ShipmentID == uuid.Nil {
		return true
	}
	return e.ShipmentID == t.ShipmentID
}
