package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/ledger"
	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/domain/statusconfig"
	"github.com/delivery-settlement-ledger/internal/platform/messaging/producers"
)

// TxRunner runs a function inside a database transaction, committing on nil
// and rolling back on error.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	db           TxRunner
	entityRepo   entity.Repository
	shipmentRepo shipment.Repository
	paymentRepo  payment.Repository
	statusRepo   statusconfig.Repository
	producer     producers.MessagePublisher
	logger       *slog.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	db TxRunner,
	entityRepo entity.Repository,
	shipmentRepo shipment.Repository,
	paymentRepo payment.Repository,
	statusRepo statusconfig.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) LedgerService {
	return &LedgerServiceImpl{
		db:           db,
		entityRepo:   entityRepo,
		shipmentRepo: shipmentRepo,
		paymentRepo:  paymentRepo,
		statusRepo:   statusRepo,
		producer:     producer,
		logger:       logger,
	}
}

// ComputeLedger recomputes the entity's balance from its active records.
func (s *LedgerServiceImpl) ComputeLedger(ctx context.Context, entityID uuid.UUID, role entity.Role) (*ledger.EntityLedger, error) {
	ent, err := s.entityRepo.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if ent.Role != role {
		return nil, fmt.Errorf("entity %s is a %s: %w", entityID, ent.Role, ErrRoleMismatch)
	}

	return s.compute(ctx, s.shipmentRepo, s.paymentRepo, entityID, role)
}

// Settle closes out the entity's ledger inside one transaction: the balance
// is re-verified against the pre-check, a closing payment is recorded when a
// positive balance remains, active payments are archived and finished
// shipments are archived for the entity's role.
func (s *LedgerServiceImpl) Settle(ctx context.Context, entityID uuid.UUID, role entity.Role, note string) (*SettlementReceipt, error) {
	ent, err := s.entityRepo.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if ent.Role != role {
		return nil, fmt.Errorf("entity %s is a %s: %w", entityID, ent.Role, ErrRoleMismatch)
	}

	snapshot, err := s.statusRepo.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load status configuration: %w", err)
	}
	finished := snapshot.FinishedStatuses(role)

	before, err := s.compute(ctx, s.shipmentRepo, s.paymentRepo, entityID, role)
	if err != nil {
		return nil, err
	}

	receipt := &SettlementReceipt{
		EntityID: entityID,
		Role:     role,
		Ledger:   *before,
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		shipmentRepo := s.shipmentRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		// The balance may have moved between the pre-check and the row locks
		// this transaction takes. Recompute and refuse to settle a stale figure.
		current, err := s.compute(ctx, shipmentRepo, paymentRepo, entityID, role)
		if err != nil {
			return err
		}
		if math.Abs(current.NetDue-before.NetDue) >= 0.01 {
			return &ErrSettlementConflict{EntityID: entityID}
		}

		if current.NetDue > 0 {
			closing, err := payment.NewClosingPayment(entityID, current.NetDue, note)
			if err != nil {
				return err
			}
			if err := paymentRepo.Create(ctx, closing); err != nil {
				return fmt.Errorf("failed to record closing payment: %w", err)
			}
			receipt.ClosingPayment = closing
		}

		archivedPayments, err := paymentRepo.ArchiveForEntity(ctx, entityID)
		if err != nil {
			return fmt.Errorf("failed to archive payments: %w", err)
		}
		receipt.PaymentsArchived = archivedPayments

		now := time.Now()
		archivedShipments, err := shipmentRepo.ArchiveForRole(ctx, entityID, role, finished, now)
		if err != nil {
			return fmt.Errorf("failed to archive shipments: %w", err)
		}
		receipt.ShipmentsArchived = archivedShipments
		receipt.SettledAt = now

		return nil
	})
	if err != nil {
		var conflict *ErrSettlementConflict
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, &ErrSettlementFailed{EntityID: entityID, Err: err}
	}

	receipt.NoOp = receipt.ClosingPayment == nil && receipt.PaymentsArchived == 0 && receipt.ShipmentsArchived == 0
	if receipt.SettledAt.IsZero() {
		receipt.SettledAt = time.Now()
	}

	s.publishSettled(ctx, receipt)

	s.logger.Info("Settlement completed",
		"entity_id", entityID,
		"role", role,
		"net_due", before.NetDue,
		"payments_archived", receipt.PaymentsArchived,
		"shipments_archived", receipt.ShipmentsArchived,
		"no_op", receipt.NoOp,
	)

	return receipt, nil
}

func (s *LedgerServiceImpl) compute(ctx context.Context, shipmentRepo shipment.Repository, paymentRepo payment.Repository, entityID uuid.UUID, role entity.Role) (*ledger.EntityLedger, error) {
	shipments, err := shipmentRepo.GetActiveForEntity(ctx, entityID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load active shipments for entity %s: %w", entityID, err)
	}
	payments, err := paymentRepo.GetActiveForEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active payments for entity %s: %w", entityID, err)
	}

	l := ledger.Compute(entityID, role, shipments, payments)
	return &l, nil
}

// publishSettled emits the settlement notification. Delivery is best effort;
// the settlement has already committed.
func (s *LedgerServiceImpl) publishSettled(ctx context.Context, receipt *SettlementReceipt) {
	event := map[string]any{
		"event":              "entity_settled",
		"entity_id":          receipt.EntityID,
		"role":               receipt.Role,
		"net_due":            receipt.Ledger.NetDue,
		"payments_archived":  receipt.PaymentsArchived,
		"shipments_archived": receipt.ShipmentsArchived,
		"settled_at":         receipt.SettledAt,
	}
	if err := s.producer.Publish(ctx, receipt.EntityID.String(), event); err != nil {
		s.logger.Error("Failed to publish settlement notification",
			"entity_id", receipt.EntityID,
			"error", err,
		)
	}
}
