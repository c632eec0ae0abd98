package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/domain/statusconfig"
	"github.com/delivery-settlement-ledger/internal/platform/messaging/producers"
)

// ShipmentServiceImpl implements the ShipmentService interface.
type ShipmentServiceImpl struct {
	shipmentRepo shipment.Repository
	entityRepo   entity.Repository
	statusRepo   statusconfig.Repository
	producer     producers.MessagePublisher
	pool         *ants.Pool
	logger       *slog.Logger
}

// NewShipmentService creates a new shipment service backed by a worker pool
// of the given size for bulk status changes.
func NewShipmentService(
	shipmentRepo shipment.Repository,
	entityRepo entity.Repository,
	statusRepo statusconfig.Repository,
	producer producers.MessagePublisher,
	poolSize int,
	logger *slog.Logger,
) (*ShipmentServiceImpl, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &ShipmentServiceImpl{
		shipmentRepo: shipmentRepo,
		entityRepo:   entityRepo,
		statusRepo:   statusRepo,
		producer:     producer,
		pool:         pool,
		logger:       logger,
	}, nil
}

// Close releases the bulk worker pool.
func (s *ShipmentServiceImpl) Close() {
	s.pool.Release()
}

// CreateShipment records a new shipment for an existing company.
func (s *ShipmentServiceImpl) CreateShipment(ctx context.Context, params CreateShipmentParams) (*shipment.Shipment, error) {
	company, err := s.entityRepo.GetByID(ctx, params.CompanyID)
	if err != nil {
		return nil, err
	}
	if company.Role != entity.RoleCompany {
		return nil, fmt.Errorf("entity %s is a %s: %w", params.CompanyID, company.Role, ErrRoleMismatch)
	}

	sh, err := shipment.NewShipment(
		params.Code,
		params.OrderNumber,
		params.CompanyID,
		params.TotalAmount,
		params.CompanyCommission,
		params.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Create(ctx, sh); err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	s.logger.Info("Shipment created",
		"shipment_id", sh.ID,
		"code", sh.Code,
		"company_id", sh.CompanyID,
	)

	return sh, nil
}

// GetShipment looks up a shipment by id.
func (s *ShipmentServiceImpl) GetShipment(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	return s.shipmentRepo.GetByID(ctx, id)
}

// ApplyTransition moves the shipment to the given status. The commission rate
// applied is the assigned courier's; an unassigned shipment accrues none.
func (s *ShipmentServiceImpl) ApplyTransition(ctx context.Context, shipmentID uuid.UUID, status string, collectedAmount float64) (*shipment.Shipment, error) {
	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.statusRepo.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load status configuration: %w", err)
	}

	var commissionRate float64
	if sh.CourierID != nil {
		courier, err := s.entityRepo.GetByID(ctx, *sh.CourierID)
		if err != nil {
			return nil, fmt.Errorf("failed to load courier %s: %w", *sh.CourierID, err)
		}
		commissionRate = courier.CommissionRate
	}

	deltas := shipment.Transition(status, sh.TotalAmount, collectedAmount, commissionRate, snapshot)
	sh.Apply(status, deltas)

	if err := s.shipmentRepo.Update(ctx, sh); err != nil {
		return nil, fmt.Errorf("failed to update shipment %s: %w", shipmentID, err)
	}

	s.logger.Info("Shipment status changed",
		"shipment_id", shipmentID,
		"status", status,
		"paid_amount", sh.PaidAmount,
		"collected_amount", sh.CollectedAmount,
	)

	return sh, nil
}

// AssignCourier attaches a courier to the shipment and notifies downstream
// consumers. Publish failures are logged, never surfaced.
func (s *ShipmentServiceImpl) AssignCourier(ctx context.Context, shipmentID, courierID uuid.UUID) (*shipment.Shipment, error) {
	courier, err := s.entityRepo.GetByID(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if courier.Role != entity.RoleCourier {
		return nil, fmt.Errorf("entity %s is a %s: %w", courierID, courier.Role, ErrRoleMismatch)
	}

	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	sh.AssignCourier(courierID)

	if err := s.shipmentRepo.Update(ctx, sh); err != nil {
		return nil, fmt.Errorf("failed to update shipment %s: %w", shipmentID, err)
	}

	event := map[string]any{
		"event":       "courier_assigned",
		"shipment_id": shipmentID,
		"courier_id":  courierID,
		"code":        sh.Code,
	}
	if err := s.producer.Publish(ctx, courierID.String(), event); err != nil {
		s.logger.Error("Failed to publish courier assignment notification",
			"shipment_id", shipmentID,
			"courier_id", courierID,
			"error", err,
		)
	}

	return sh, nil
}

// BulkTransition applies the same status change to every shipment through the
// worker pool. Each item commits or fails on its own; there is no rollback
// across items.
func (s *ShipmentServiceImpl) BulkTransition(ctx context.Context, shipmentIDs []uuid.UUID, status string, collectedAmount float64) []BulkTransitionItem {
	items := make([]BulkTransitionItem, len(shipmentIDs))

	var wg sync.WaitGroup
	for i, id := range shipmentIDs {
		i, id := i, id
		items[i].ShipmentID = id

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			sh, err := s.ApplyTransition(ctx, id, status, collectedAmount)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Status = sh.Status
		})
		if err != nil {
			wg.Done()
			items[i].Error = fmt.Sprintf("failed to submit to worker pool: %v", err)
		}
	}
	wg.Wait()

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	s.logger.Info("Bulk status change completed",
		"total", len(shipmentIDs),
		"failed", failed,
		"status", status,
	)

	return items
}
