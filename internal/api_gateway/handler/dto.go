package handler

import (
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/delivery-settlement-ledger/internal/domain/ledger"
	"github.com/delivery-settlement-ledger/internal/domain/shipment"
)

// CreateEntityRequest represents a request to register a courier or company
type CreateEntityRequest struct {
	Role           string  `json:"role" binding:"required,oneof=COURIER COMPANY"`
	Name           string  `json:"name" binding:"required"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commission_rate" binding:"min=0"`
}

// EntityResponse represents a courier or company in API responses
type EntityResponse struct {
	ID             string  `json:"id"`
	Role           string  `json:"role"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone,omitempty"`
	CommissionRate float64 `json:"commission_rate"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CreateShipmentRequest represents a shipment intake request
type CreateShipmentRequest struct {
	Code              string  `json:"code" binding:"required"`
	OrderNumber       string  `json:"order_number"`
	CompanyID         string  `json:"company_id" binding:"required,uuid"`
	TotalAmount       float64 `json:"total_amount" binding:"min=0"`
	CompanyCommission float64 `json:"company_commission" binding:"min=0"`
	Status            string  `json:"status"`
}

// TransitionRequest represents a status change request for one shipment
type TransitionRequest struct {
	Status          string  `json:"status" binding:"required"`
	CollectedAmount float64 `json:"collected_amount" binding:"min=0"`
}

// AssignCourierRequest represents a courier assignment request
type AssignCourierRequest struct {
	CourierID string `json:"courier_id" binding:"required,uuid"`
}

// BulkTransitionRequest represents a status change applied to many shipments
type BulkTransitionRequest struct {
	ShipmentIDs     []string `json:"shipment_ids" binding:"required,min=1,dive,uuid"`
	Status          string   `json:"status" binding:"required"`
	CollectedAmount float64  `json:"collected_amount" binding:"min=0"`
}

// ShipmentResponse represents a shipment in API responses
type ShipmentResponse struct {
	ID                string  `json:"id"`
	Code              string  `json:"code"`
	OrderNumber       string  `json:"order_number,omitempty"`
	CompanyID         string  `json:"company_id"`
	CourierID         string  `json:"courier_id,omitempty"`
	TotalAmount       float64 `json:"total_amount"`
	PaidAmount        float64 `json:"paid_amount"`
	CollectedAmount   float64 `json:"collected_amount"`
	CourierCommission float64 `json:"courier_commission"`
	CompanyCommission float64 `json:"company_commission"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// ReconcileRequest represents a reconciliation run over raw sheet rows
type ReconcileRequest struct {
	CompanyID string  `json:"company_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"`
	Rows      [][]any `json:"rows" binding:"required,min=1"`
}

// SettleRequest represents a settlement request for an entity's ledger
type SettleRequest struct {
	Role string `json:"role" binding:"required,oneof=COURIER COMPANY"`
	Note string `json:"note"`
}

// LedgerResponse represents a computed entity ledger in API responses
type LedgerResponse struct {
	EntityID        string  `json:"entity_id"`
	Role            string  `json:"role"`
	TotalCollected  float64 `json:"total_collected"`
	TotalCommission float64 `json:"total_commission"`
	TotalPaid       float64 `json:"total_paid"`
	NetDue          float64 `json:"net_due"`
	ComputedAt      string  `json:"computed_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func mapEntityToResponse(ent *entity.Entity) EntityResponse {
	return EntityResponse{
		ID:             ent.ID.String(),
		Role:           string(ent.Role),
		Name:           ent.Name,
		Phone:          ent.Phone,
		CommissionRate: ent.CommissionRate,
		CreatedAt:      ent.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      ent.UpdatedAt.Format(time.RFC3339),
	}
}

func mapShipmentToResponse(s *shipment.Shipment) ShipmentResponse {
	resp := ShipmentResponse{
		ID:                s.ID.String(),
		Code:              s.Code,
		OrderNumber:       s.OrderNumber,
		CompanyID:         s.CompanyID.String(),
		TotalAmount:       s.TotalAmount,
		PaidAmount:        s.PaidAmount,
		CollectedAmount:   s.CollectedAmount,
		CourierCommission: s.CourierCommission,
		CompanyCommission: s.CompanyCommission,
		Status:            s.Status,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.Format(time.RFC3339),
	}
	if s.CourierID != nil {
		resp.CourierID = s.CourierID.String()
	}
	return resp
}

func mapLedgerToResponse(l *ledger.EntityLedger) LedgerResponse {
	return LedgerResponse{
		EntityID:        l.EntityID.String(),
		Role:            string(l.Role),
		TotalCollected:  l.TotalCollected,
		TotalCommission: l.TotalCommission,
		TotalPaid:       l.TotalPaid,
		NetDue:          l.NetDue,
		ComputedAt:      l.ComputedAt.Format(time.RFC3339),
	}
}
