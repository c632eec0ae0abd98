package reconciliation

import (
	"context"
	"time"

	"github.com/delivery-settlement-ledger/internal/sheet"
	"github.com/google/uuid"
)

// Report is the audit record of one reconciliation run. Sheet records stay
// ephemeral; what persists is the outcome: how every record classified and
// which rows were rejected during normalization.
type Report struct {
	ID             uuid.UUID           `json:"id" bson:"report_id"`
	CompanyID      uuid.UUID           `json:"company_id" bson:"company_id"`
	Date           time.Time           `json:"date" bson:"date"`
	SheetRows      int                 `json:"sheet_rows" bson:"sheet_rows"`
	MatchedCount   int                 `json:"matched_count" bson:"matched_count"`
	Discrepancies  []Discrepancy       `json:"discrepancies" bson:"discrepancies"`
	DateMismatches []Discrepancy       `json:"date_mismatches" bson:"date_mismatches"`
	SheetOnly      []sheet.Record      `json:"sheet_only" bson:"sheet_only"`
	SystemOnlyIDs  []uuid.UUID         `json:"system_only_ids" bson:"system_only_ids"`
	RejectedRows   []sheet.RejectedRow `json:"rejected_rows" bson:"rejected_rows"`
	RanAt          time.Time           `json:"ran_at" bson:"ran_at"`
}

// NewReport summarizes a matcher result plus the rows normalization rejected
func NewReport(result Result, sheetRows int, rejected []sheet.RejectedRow) *Report {
	systemOnlyIDs := make([]uuid.UUID, len(result.SystemOnly))
	for i, s := range result.SystemOnly {
		systemOnlyIDs[i] = s.ID
	}

	return &Report{
		ID:             uuid.New(),
		CompanyID:      result.CompanyID,
		Date:           result.Date,
		SheetRows:      sheetRows,
		MatchedCount:   len(result.Matched),
		Discrepancies:  result.Discrepancies,
		DateMismatches: result.DateMismatches,
		SheetOnly:      result.SheetOnly,
		SystemOnlyIDs:  systemOnlyIDs,
		RejectedRows:   rejected,
		RanAt:          time.Now(),
	}
}

// ReportRepository persists reconciliation audit reports
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	GetByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*Report, error)
}
