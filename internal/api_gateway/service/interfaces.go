package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/ledger"
	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/reconciliation"
	"github.com/delivery-settlement-ledger/internal/sheet"
)

// ReconcileOutcome bundles the match result with the rows that were
// rejected during normalization, so callers can surface both.
type ReconcileOutcome struct {
	Result       reconciliation.Result
	RejectedRows []sheet.RejectedRow
}

// SettlementReceipt describes what a settlement run did. NoOp is true
// when the ledger was already settled and nothing needed archiving.
type SettlementReceipt struct {
	EntityID          uuid.UUID           `json:"entity_id"`
	Role              entity.Role         `json:"role"`
	Ledger            ledger.EntityLedger `json:"ledger"`
	ClosingPayment    *payment.Payment    `json:"closing_payment,omitempty"`
	PaymentsArchived  int64               `json:"payments_archived"`
	ShipmentsArchived int64               `json:"shipments_archived"`
	NoOp              bool                `json:"no_op"`
	SettledAt         time.Time           `json:"settled_at"`
}

// BulkTransitionItem reports the outcome of one shipment within a bulk
// status change. Error is empty on success.
type BulkTransitionItem struct {
	ShipmentID uuid.UUID `json:"shipment_id"`
	Status     string    `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// EntityService manages the couriers and companies ledgers settle against.
type EntityService interface {
	// CreateEntity registers a courier or company.
	CreateEntity(ctx context.Context, role entity.Role, name, phone string, commissionRate float64) (*entity.Entity, error)

	// GetEntity returns entity.ErrEntityNotFound if no entity with the
	// given id exists.
	GetEntity(ctx context.Context, id uuid.UUID) (*entity.Entity, error)
}

// ReconciliationService matches a company's delivery sheet against the
// shipments recorded in the system.
type ReconciliationService interface {
	// Reconcile resolves the sheet header, normalizes the rows and matches
	// them against the company's shipments for the given date. A report is
	// persisted on a best effort basis.
	// Returns entity.ErrEntityNotFound if the company does not exist and
	// sheet.ErrHeaderNotFound if the header row cannot be resolved.
	Reconcile(ctx context.Context, companyID uuid.UUID, date time.Time, rows [][]any) (*ReconcileOutcome, error)

	// Reports returns previously persisted reconciliation reports for the
	// company, newest first.
	Reports(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*reconciliation.Report, error)
}

// LedgerService computes entity balances and settles them.
type LedgerService interface {
	// ComputeLedger recomputes the entity's balance from its active
	// shipments and payments. Nothing is cached.
	// Returns entity.ErrEntityNotFound if the entity does not exist and
	// ErrRoleMismatch if the requested role does not match the entity.
	ComputeLedger(ctx context.Context, entityID uuid.UUID, role entity.Role) (*ledger.EntityLedger, error)

	// Settle atomically closes out the entity's ledger: records a closing
	// payment when a balance remains, archives active payments and archives
	// finished shipments for the entity's role.
	// Returns ErrSettlementConflict if the balance changed while settling.
	Settle(ctx context.Context, entityID uuid.UUID, role entity.Role, note string) (*SettlementReceipt, error)
}

// ShipmentService manages shipment intake and status transitions.
type ShipmentService interface {
	// CreateShipment records a new shipment for a company.
	// Returns entity.ErrEntityNotFound if the company does not exist.
	CreateShipment(ctx context.Context, params CreateShipmentParams) (*shipment.Shipment, error)

	// GetShipment returns shipment.ErrShipmentNotFound if no shipment with
	// the given id exists.
	GetShipment(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error)

	// ApplyTransition moves the shipment to the given status and applies
	// the financial deltas the status implies.
	ApplyTransition(ctx context.Context, shipmentID uuid.UUID, status string, collectedAmount float64) (*shipment.Shipment, error)

	// AssignCourier attaches a courier to the shipment.
	// Returns entity.ErrEntityNotFound if the courier does not exist and
	// ErrRoleMismatch if the entity is not a courier.
	AssignCourier(ctx context.Context, shipmentID, courierID uuid.UUID) (*shipment.Shipment, error)

	// BulkTransition applies the same status change to many shipments
	// concurrently. Items are independent: one failure does not roll back
	// the others. The returned slice preserves input order.
	BulkTransition(ctx context.Context, shipmentIDs []uuid.UUID, status string, collectedAmount float64) []BulkTransitionItem
}

// CreateShipmentParams carries the fields accepted at shipment intake.
type CreateShipmentParams struct {
	Code              string
	OrderNumber       string
	CompanyID         uuid.UUID
	TotalAmount       float64
	CompanyCommission float64
	Status            string
}
