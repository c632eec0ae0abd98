package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
)

func newShipmentFixture(t *testing.T) (*MockShipmentRepository, *MockEntityRepository, *MockStatusConfigRepository, *MockMessagePublisher, *ShipmentServiceImpl) {
	t.Helper()

	shipmentRepo := new(MockShipmentRepository)
	entityRepo := new(MockEntityRepository)
	statusRepo := new(MockStatusConfigRepository)
	producer := new(MockMessagePublisher)

	svc, err := NewShipmentService(shipmentRepo, entityRepo, statusRepo, producer, 4, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return shipmentRepo, entityRepo, statusRepo, producer, svc
}

func TestCreateShipment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates for existing company", func(t *testing.T) {
		shipmentRepo, entityRepo, _, _, svc := newShipmentFixture(t)

		companyID := uuid.New()
		entityRepo.On("GetByID", mock.Anything, companyID).Return(companyEntity(companyID), nil)
		shipmentRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *shipment.Shipment) bool {
			return s.Code == "SH-100" && s.CompanyID == companyID && s.TotalAmount == 200.0
		})).Return(nil)

		sh, err := svc.CreateShipment(ctx, CreateShipmentParams{
			Code:        "SH-100",
			CompanyID:   companyID,
			TotalAmount: 200.0,
			Status:      "pending",
		})
		assert.NoError(t, err)
		assert.Equal(t, "pending", sh.Status)
		shipmentRepo.AssertExpectations(t)
	})

	t.Run("rejects a courier as owner", func(t *testing.T) {
		_, entityRepo, _, _, svc := newShipmentFixture(t)

		id := uuid.New()
		entityRepo.On("GetByID", mock.Anything, id).Return(courierEntity(id, 0.1), nil)

		_, err := svc.CreateShipment(ctx, CreateShipmentParams{Code: "SH-100", CompanyID: id})
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("company not found", func(t *testing.T) {
		_, entityRepo, _, _, svc := newShipmentFixture(t)

		id := uuid.New()
		entityRepo.On("GetByID", mock.Anything, id).Return(nil, entity.ErrEntityNotFound{EntityID: id})

		_, err := svc.CreateShipment(ctx, CreateShipmentParams{Code: "SH-100", CompanyID: id})
		assert.ErrorIs(t, err, entity.ErrEntityNotFound{})
	})
}

func TestApplyTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered collects full amount with courier commission", func(t *testing.T) {
		shipmentRepo, entityRepo, statusRepo, _, svc := newShipmentFixture(t)

		courierID := uuid.New()
		sh := &shipment.Shipment{
			ID:          uuid.New(),
			Code:        "SH-100",
			CompanyID:   uuid.New(),
			CourierID:   &courierID,
			TotalAmount: 200.0,
			Status:      "out_for_delivery",
		}

		shipmentRepo.On("GetByID", mock.Anything, sh.ID).Return(sh, nil)
		statusRepo.On("GetSnapshot", mock.Anything).Return(deliveredSnapshot(), nil)
		entityRepo.On("GetByID", mock.Anything, courierID).Return(courierEntity(courierID, 15.0), nil)
		shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

		updated, err := svc.ApplyTransition(ctx, sh.ID, "delivered", 0)
		assert.NoError(t, err)
		assert.Equal(t, "delivered", updated.Status)
		assert.Equal(t, 200.0, updated.PaidAmount)
		assert.Equal(t, 200.0, updated.CollectedAmount)
		assert.Equal(t, 15.0, updated.CourierCommission)
	})

	t.Run("unassigned shipment accrues no commission", func(t *testing.T) {
		shipmentRepo, entityRepo, statusRepo, _, svc := newShipmentFixture(t)

		sh := &shipment.Shipment{
			ID:          uuid.New(),
			Code:        "SH-101",
			CompanyID:   uuid.New(),
			TotalAmount: 80.0,
			Status:      "pending",
		}

		shipmentRepo.On("GetByID", mock.Anything, sh.ID).Return(sh, nil)
		statusRepo.On("GetSnapshot", mock.Anything).Return(deliveredSnapshot(), nil)
		shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

		updated, err := svc.ApplyTransition(ctx, sh.ID, "delivered", 0)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, updated.CourierCommission)
		entityRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown status changes label only", func(t *testing.T) {
		shipmentRepo, _, statusRepo, _, svc := newShipmentFixture(t)

		sh := &shipment.Shipment{
			ID:          uuid.New(),
			Code:        "SH-102",
			CompanyID:   uuid.New(),
			TotalAmount: 80.0,
			Status:      "pending",
		}

		shipmentRepo.On("GetByID", mock.Anything, sh.ID).Return(sh, nil)
		statusRepo.On("GetSnapshot", mock.Anything).Return(deliveredSnapshot(), nil)
		shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

		updated, err := svc.ApplyTransition(ctx, sh.ID, "mystery_status", 0)
		assert.NoError(t, err)
		assert.Equal(t, "mystery_status", updated.Status)
		assert.Equal(t, 0.0, updated.PaidAmount)
	})

	t.Run("shipment not found", func(t *testing.T) {
		shipmentRepo, _, _, _, svc := newShipmentFixture(t)

		id := uuid.New()
		shipmentRepo.On("GetByID", mock.Anything, id).
			Return(nil, shipment.ErrShipmentNotFound{ShipmentID: id})

		_, err := svc.ApplyTransition(ctx, id, "delivered", 0)
		assert.ErrorIs(t, err, shipment.ErrShipmentNotFound{})
	})
}

func TestAssignCourier(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns and notifies", func(t *testing.T) {
		shipmentRepo, entityRepo, _, producer, svc := newShipmentFixture(t)

		courierID := uuid.New()
		sh := &shipment.Shipment{ID: uuid.New(), Code: "SH-100", CompanyID: uuid.New()}

		entityRepo.On("GetByID", mock.Anything, courierID).Return(courierEntity(courierID, 0.1), nil)
		shipmentRepo.On("GetByID", mock.Anything, sh.ID).Return(sh, nil)
		shipmentRepo.On("Update", mock.Anything, sh).Return(nil)
		producer.On("Publish", mock.Anything, courierID.String(), mock.Anything).Return(nil)

		updated, err := svc.AssignCourier(ctx, sh.ID, courierID)
		assert.NoError(t, err)
		require.NotNil(t, updated.CourierID)
		assert.Equal(t, courierID, *updated.CourierID)
		producer.AssertExpectations(t)
	})

	t.Run("rejects a company as courier", func(t *testing.T) {
		_, entityRepo, _, _, svc := newShipmentFixture(t)

		id := uuid.New()
		entityRepo.On("GetByID", mock.Anything, id).Return(companyEntity(id), nil)

		_, err := svc.AssignCourier(ctx, uuid.New(), id)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})
}

func TestBulkTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("independent items, failures isolated", func(t *testing.T) {
		shipmentRepo, _, statusRepo, _, svc := newShipmentFixture(t)

		okID := uuid.New()
		missingID := uuid.New()
		sh := &shipment.Shipment{
			ID:          okID,
			Code:        "SH-100",
			CompanyID:   uuid.New(),
			TotalAmount: 50.0,
			Status:      "pending",
		}

		statusRepo.On("GetSnapshot", mock.Anything).Return(deliveredSnapshot(), nil)
		shipmentRepo.On("GetByID", mock.Anything, okID).Return(sh, nil)
		shipmentRepo.On("GetByID", mock.Anything, missingID).
			Return(nil, shipment.ErrShipmentNotFound{ShipmentID: missingID})
		shipmentRepo.On("Update", mock.Anything, sh).Return(nil)

		items := svc.BulkTransition(ctx, []uuid.UUID{okID, missingID}, "delivered", 0)
		require.Len(t, items, 2)
		assert.Equal(t, okID, items[0].ShipmentID)
		assert.Empty(t, items[0].Error)
		assert.Equal(t, "delivered", items[0].Status)
		assert.Equal(t, missingID, items[1].ShipmentID)
		assert.NotEmpty(t, items[1].Error)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, _, _, svc := newShipmentFixture(t)

		items := svc.BulkTransition(ctx, nil, "delivered", 0)
		assert.Empty(t, items)
	})
}
