package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/api_gateway/service"
	"github.com/delivery-settlement-ledger/internal/domain/entity"
)

// EntityHandler handles HTTP requests for courier and company records
type EntityHandler struct {
	entityService service.EntityService
	logger        *slog.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(logger *slog.Logger, entityService service.EntityService) *EntityHandler {
	return &EntityHandler{
		entityService: entityService,
		logger:        logger,
	}
}

// Create registers a courier or company
func (h *EntityHandler) Create(c *gin.Context) {
	var req CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	role, err := entity.ParseRole(req.Role)
	if err != nil {
		RespondBadRequest(c, "Invalid role: "+req.Role)
		return
	}

	ent, err := h.entityService.CreateEntity(c.Request.Context(), role, req.Name, req.Phone, req.CommissionRate)
	if err != nil {
		if errors.Is(err, entity.ErrEmptyName) || errors.Is(err, entity.ErrInvalidRole) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create entity", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapEntityToResponse(ent))
}

// GetByID retrieves a courier or company by id, returning 404 if not found
func (h *EntityHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid entity ID")
		return
	}

	ent, err := h.entityService.GetEntity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrEntityNotFound{}) {
			RespondNotFound(c, "Entity not found")
			return
		}
		h.logger.Error("Failed to get entity", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEntityToResponse(ent))
}
