// Package ledger derives an entity's financial position from its active
// shipments and payments. A ledger is a computed snapshot, never persisted
// and never cached, so it cannot drift out of sync with the source records.
package ledger

import (
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/google/uuid"
)

// EntityLedger is the derived financial position of a courier or company
type EntityLedger struct {
	EntityID        uuid.UUID   `json:"entity_id"`
	Role            entity.Role `json:"role"`
	TotalCollected  float64     `json:"total_collected"`
	TotalCommission float64     `json:"total_commission"`
	TotalPaid       float64     `json:"total_paid"`
	NetDue          float64     `json:"net_due"`
	ComputedAt      time.Time   `json:"computed_at"`
}

// Compute derives the ledger for an entity from the shipments and payments
// still contributing to it. Records already archived for the given role
// contribute nothing, even if a caller passes them in.
func Compute(entityID uuid.UUID, role entity.Role, activeShipments []*shipment.Shipment, activePayments []*payment.Payment) EntityLedger {
	l := EntityLedger{
		EntityID:   entityID,
		Role:       role,
		ComputedAt: time.Now(),
	}

	for _, s := range activeShipments {
		if s.IsArchivedFor(role) {
			continue
		}
		l.TotalCollected += s.PaidAmount
		l.TotalCommission += s.CommissionFor(role)
	}

	for _, p := range activePayments {
		if p.Archived {
			continue
		}
		l.TotalPaid += p.Amount
	}

	l.NetDue = (l.TotalCollected - l.TotalCommission) - l.TotalPaid
	return l
}

// IsSettled reports whether the ledger leaves nothing to pay out
func (l EntityLedger) IsSettled() bool {
	return l.NetDue == 0
}
