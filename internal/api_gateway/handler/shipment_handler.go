package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/api_gateway/service"
	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
)

// ShipmentHandler handles HTTP requests for shipment operations
type ShipmentHandler struct {
	shipmentService service.ShipmentService
	logger          *slog.Logger
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(logger *slog.Logger, shipmentService service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		logger:          logger,
	}
}

// Create records a shipment at intake
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		RespondBadRequest(c, "Invalid company ID")
		return
	}

	sh, err := h.shipmentService.CreateShipment(c.Request.Context(), service.CreateShipmentParams{
		Code:              req.Code,
		OrderNumber:       req.OrderNumber,
		CompanyID:         companyID,
		TotalAmount:       req.TotalAmount,
		CompanyCommission: req.CompanyCommission,
		Status:            req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEntityNotFound{}):
			RespondNotFound(c, "Company not found")
		case errors.Is(err, service.ErrRoleMismatch):
			RespondBadRequest(c, "Shipments must belong to a company")
		case errors.Is(err, shipment.ErrEmptyCode), errors.Is(err, shipment.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create shipment", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapShipmentToResponse(sh))
}

// GetByID retrieves a shipment by its id, returning 404 if not found
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid shipment ID")
		return
	}

	sh, err := h.shipmentService.GetShipment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shipment.ErrShipmentNotFound{}) {
			RespondNotFound(c, "Shipment not found")
			return
		}
		h.logger.Error("Failed to get shipment", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapShipmentToResponse(sh))
}

// Transition applies a status change to one shipment
func (h *ShipmentHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid shipment ID")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sh, err := h.shipmentService.ApplyTransition(c.Request.Context(), id, req.Status, req.CollectedAmount)
	if err != nil {
		if errors.Is(err, shipment.ErrShipmentNotFound{}) {
			RespondNotFound(c, "Shipment not found")
			return
		}
		h.logger.Error("Failed to apply status change", "shipment_id", id, "status", req.Status, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapShipmentToResponse(sh))
}

// Assign attaches a courier to a shipment
func (h *ShipmentHandler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid shipment ID")
		return
	}

	var req AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	courierID, err := uuid.Parse(req.CourierID)
	if err != nil {
		RespondBadRequest(c, "Invalid courier ID")
		return
	}

	sh, err := h.shipmentService.AssignCourier(c.Request.Context(), id, courierID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEntityNotFound{}):
			RespondNotFound(c, "Courier not found")
		case errors.Is(err, shipment.ErrShipmentNotFound{}):
			RespondNotFound(c, "Shipment not found")
		case errors.Is(err, service.ErrRoleMismatch):
			RespondBadRequest(c, "Assigned entity must be a courier")
		default:
			h.logger.Error("Failed to assign courier", "shipment_id", id, "courier_id", courierID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapShipmentToResponse(sh))
}

// BulkTransition applies one status change to many shipments. Items succeed
// or fail independently; the response carries a result per shipment.
func (h *ShipmentHandler) BulkTransition(c *gin.Context) {
	var req BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ShipmentIDs))
	for _, raw := range req.ShipmentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid shipment ID: "+raw)
			return
		}
		ids = append(ids, id)
	}

	items := h.shipmentService.BulkTransition(c.Request.Context(), ids, req.Status, req.CollectedAmount)
	RespondOK(c, gin.H{"results": items})
}
