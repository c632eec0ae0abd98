package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/reconciliation"
	"github.com/delivery-settlement-ledger/internal/sheet"
)

// ReconciliationServiceImpl implements the ReconciliationService interface.
type ReconciliationServiceImpl struct {
	entityRepo   entity.Repository
	shipmentRepo shipment.Repository
	reportRepo   reconciliation.ReportRepository
	logger       *slog.Logger
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	entityRepo entity.Repository,
	shipmentRepo shipment.Repository,
	reportRepo reconciliation.ReportRepository,
	logger *slog.Logger,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		entityRepo:   entityRepo,
		shipmentRepo: shipmentRepo,
		reportRepo:   reportRepo,
		logger:       logger,
	}
}

// Reconcile resolves the sheet header, normalizes the rows and matches them
// against the company's recorded shipments for the given date.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, companyID uuid.UUID, date time.Time, rows [][]any) (*ReconcileOutcome, error) {
	company, err := s.entityRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Role != entity.RoleCompany {
		return nil, fmt.Errorf("entity %s: %w", companyID, ErrRoleMismatch)
	}

	layout, err := sheet.ResolveHeader(rows)
	if err != nil {
		return nil, err
	}

	records, rejected := sheet.Normalize(rows, layout)

	shipments, err := s.shipmentRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipments for company %s: %w", companyID, err)
	}

	result := reconciliation.Match(companyID, date, shipments, records)

	// The report is an audit artifact; a storage failure must not fail the run.
	report := reconciliation.NewReport(result, len(records), rejected)
	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.logger.Error("Failed to persist reconciliation report",
			"company_id", companyID,
			"report_id", report.ID,
			"error", err,
		)
	}

	s.logger.Info("Reconciliation completed",
		"company_id", companyID,
		"date", date.Format("2006-01-02"),
		"matched", len(result.Matched),
		"discrepancies", len(result.Discrepancies),
		"date_mismatches", len(result.DateMismatches),
		"sheet_only", len(result.SheetOnly),
		"system_only", len(result.SystemOnly),
		"rejected_rows", len(rejected),
	)

	return &ReconcileOutcome{Result: result, RejectedRows: rejected}, nil
}

// Reports returns persisted reconciliation reports for the company.
func (s *ReconciliationServiceImpl) Reports(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*reconciliation.Report, error) {
	if _, err := s.entityRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByCompanyID(ctx, companyID, limit, offset)
}
