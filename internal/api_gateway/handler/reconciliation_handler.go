package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/delivery-settlement-ledger/internal/api_gateway/service"
	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/sheet"
)

const dateLayout = "2006-01-02"

// ReconciliationHandler handles HTTP requests for reconciliation runs
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	maxUploadBytes        int64
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService, maxUploadBytes int64) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		maxUploadBytes:        maxUploadBytes,
		logger:                logger,
	}
}

// Reconcile runs a reconciliation over raw sheet rows supplied as JSON
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		RespondBadRequest(c, "Invalid company ID")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		RespondBadRequest(c, "Date must be formatted as YYYY-MM-DD")
		return
	}

	h.run(c, companyID, date, req.Rows)
}

// Import runs a reconciliation over the first sheet of an uploaded xlsx file.
// Form fields: company_id, date, file.
func (h *ReconciliationHandler) Import(c *gin.Context) {
	companyID, err := uuid.Parse(c.PostForm("company_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid company ID")
		return
	}

	date, err := time.Parse(dateLayout, c.PostForm("date"))
	if err != nil {
		RespondBadRequest(c, "Date must be formatted as YYYY-MM-DD")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "Missing xlsx file upload")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		RespondBadRequest(c, "Uploaded file exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		RespondInternalError(c)
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		RespondBadRequest(c, "File is not a readable xlsx workbook")
		return
	}
	defer workbook.Close()

	sheetName := workbook.GetSheetName(0)
	rawRows, err := workbook.GetRows(sheetName)
	if err != nil {
		h.logger.Error("Failed to read workbook rows", "sheet", sheetName, "error", err)
		RespondBadRequest(c, "Could not read rows from the workbook")
		return
	}

	rows := make([][]any, len(rawRows))
	for i, rawRow := range rawRows {
		row := make([]any, len(rawRow))
		for j, cell := range rawRow {
			row[j] = cell
		}
		rows[i] = row
	}

	h.run(c, companyID, date, rows)
}

func (h *ReconciliationHandler) run(c *gin.Context, companyID uuid.UUID, date time.Time, rows [][]any) {
	outcome, err := h.reconciliationService.Reconcile(c.Request.Context(), companyID, date, rows)
	if err != nil {
		var headerErr sheet.ErrHeaderNotFound
		switch {
		case errors.Is(err, entity.ErrEntityNotFound{}):
			RespondNotFound(c, "Company not found")
		case errors.Is(err, service.ErrRoleMismatch):
			RespondBadRequest(c, "Reconciliation runs against a company")
		case errors.As(err, &headerErr):
			RespondBadRequest(c, headerErr.Error())
		default:
			h.logger.Error("Reconciliation failed", "company_id", companyID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, gin.H{
		"result":        outcome.Result,
		"rejected_rows": outcome.RejectedRows,
	})
}

// Reports lists persisted reconciliation reports for a company, newest first
func (h *ReconciliationHandler) Reports(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		RespondBadRequest(c, "Query parameter company_id must be a UUID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	offset := (pagination.Page - 1) * pagination.PerPage
	reports, err := h.reconciliationService.Reports(c.Request.Context(), companyID, pagination.PerPage, offset)
	if err != nil {
		if errors.Is(err, entity.ErrEntityNotFound{}) {
			RespondNotFound(c, "Company not found")
			return
		}
		h.logger.Error("Failed to list reconciliation reports", "company_id", companyID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"reports": reports})
}
