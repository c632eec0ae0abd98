package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/api_gateway/service"
	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
)

// LedgerHandler handles HTTP requests for ledgers and settlements
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// GetLedger recomputes and returns an entity's balance
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entity ID")
		return
	}

	role, err := entity.ParseRole(c.Query("role"))
	if err != nil {
		RespondBadRequest(c, "Query parameter role must be COURIER or COMPANY")
		return
	}

	led, err := h.ledgerService.ComputeLedger(c.Request.Context(), id, role)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEntityNotFound{}):
			RespondNotFound(c, "Entity not found")
		case errors.Is(err, service.ErrRoleMismatch):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, persistence.ErrPermissionDenied):
			RespondForbidden(c, "Database permission denied")
		default:
			h.logger.Error("Failed to compute ledger", "entity_id", id, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapLedgerToResponse(led))
}

// Settle closes out an entity's ledger and returns the settlement receipt
func (h *LedgerHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entity ID")
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	role, err := entity.ParseRole(req.Role)
	if err != nil {
		RespondBadRequest(c, "Role must be COURIER or COMPANY")
		return
	}

	receipt, err := h.ledgerService.Settle(c.Request.Context(), id, role, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEntityNotFound{}):
			RespondNotFound(c, "Entity not found")
		case errors.Is(err, service.ErrRoleMismatch):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, &service.ErrSettlementConflict{}):
			RespondConflict(c, "Balance changed during settlement, retry")
		case errors.Is(err, persistence.ErrPermissionDenied):
			RespondForbidden(c, "Database permission denied")
		default:
			h.logger.Error("Settlement failed", "entity_id", id, "role", role, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, receipt)
}
