package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/payment"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/domain/statusconfig"
	"github.com/delivery-settlement-ledger/internal/reconciliation"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockEntityRepository is a mock implementation of entity.Repository
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) Create(ctx context.Context, ent *entity.Entity) error {
	args := m.Called(ctx, ent)
	return args.Error(0)
}

func (m *MockEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entity), args.Error(1)
}

// MockShipmentRepository is a mock implementation of shipment.Repository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetActiveForEntity(ctx context.Context, entityID uuid.UUID, role entity.Role) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, entityID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) ArchiveForRole(ctx context.Context, entityID uuid.UUID, role entity.Role, finishedStatuses []string, archivedAt time.Time) (int64, error) {
	args := m.Called(ctx, entityID, role, finishedStatuses, archivedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentRepository) WithTx(tx pgx.Tx) shipment.Repository {
	args := m.Called(tx)
	return args.Get(0).(shipment.Repository)
}

// MockPaymentRepository is a mock implementation of payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetActiveForEntity(ctx context.Context, entityID uuid.UUID) ([]*payment.Payment, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ArchiveForEntity(ctx context.Context, entityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	args := m.Called(tx)
	return args.Get(0).(payment.Repository)
}

// MockStatusConfigRepository is a mock implementation of statusconfig.Repository
type MockStatusConfigRepository struct {
	mock.Mock
}

func (m *MockStatusConfigRepository) GetSnapshot(ctx context.Context) (statusconfig.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(statusconfig.Snapshot), args.Error(1)
}

// MockReportRepository is a mock implementation of reconciliation.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *reconciliation.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*reconciliation.Report, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Report), args.Error(1)
}

// MockMessagePublisher is a mock implementation of producers.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTxRunner runs the transaction function directly, without a database.
// A nil pgx.Tx is passed through to the repos' WithTx mocks.
type MockTxRunner struct {
	mock.Mock
}

func (m *MockTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}
