// Package shipment models a single delivery unit, its lifecycle status and
// the monetary amounts it accrues for the courier and company ledgers.
package shipment

import (
	"errors"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyCode        = errors.New("shipment code cannot be empty")
	ErrInvalidAmount    = errors.New("total amount cannot be negative")
	ErrMissingCompanyID = errors.New("company id is required")
)

// Shipment represents a delivery unit tracked by the system.
// Code is the primary matching key against settlement sheets; OrderNumber is
// an alternate external key and either may match a sheet code. The two
// archive flags are independent: settling the courier side must not hide the
// shipment from the company ledger, and vice versa.
type Shipment struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	OrderNumber        string     `json:"order_number"`
	CompanyID          uuid.UUID  `json:"company_id"`
	CourierID          *uuid.UUID `json:"courier_id,omitempty"`
	TotalAmount        float64    `json:"total_amount"`
	PaidAmount         float64    `json:"paid_amount"`
	CollectedAmount    float64    `json:"collected_amount"`
	CourierCommission  float64    `json:"courier_commission"`
	CompanyCommission  float64    `json:"company_commission"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ArchivedForCompany bool       `json:"archived_for_company"`
	ArchivedForCourier bool       `json:"archived_for_courier"`
	CompanyArchivedAt  *time.Time `json:"company_archived_at,omitempty"`
	CourierArchivedAt  *time.Time `json:"courier_archived_at,omitempty"`
}

// NewShipment creates a shipment at intake
func NewShipment(code, orderNumber string, companyID uuid.UUID, totalAmount, companyCommission float64, status string) (*Shipment, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if companyID == uuid.Nil {
		return nil, ErrMissingCompanyID
	}
	if totalAmount < 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &Shipment{
		ID:                uuid.New(),
		Code:              code,
		OrderNumber:       orderNumber,
		CompanyID:         companyID,
		TotalAmount:       totalAmount,
		CompanyCommission: companyCommission,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MatchesCode reports whether a sheet code refers to this shipment,
// by shipment code or by the alternate order number
func (s *Shipment) MatchesCode(code string) bool {
	return s.Code == code || (s.OrderNumber != "" && s.OrderNumber == code)
}

// IsArchivedFor returns the role-specific archive flag
func (s *Shipment) IsArchivedFor(role entity.Role) bool {
	if role == entity.RoleCourier {
		return s.ArchivedForCourier
	}
	return s.ArchivedForCompany
}

// CommissionFor returns the commission owed to the operator for the given
// role's side of this shipment
func (s *Shipment) CommissionFor(role entity.Role) float64 {
	if role == entity.RoleCourier {
		return s.CourierCommission
	}
	return s.CompanyCommission
}

// AssignCourier sets the carrying courier
func (s *Shipment) AssignCourier(courierID uuid.UUID) {
	s.CourierID = &courierID
	s.UpdatedAt = time.Now()
}

// Apply persists transition deltas onto the shipment
func (s *Shipment) Apply(status string, d Deltas) {
	s.Status = status
	s.PaidAmount = d.PaidAmount
	s.CollectedAmount = d.CollectedAmount
	s.CourierCommission = d.CourierCommission
	s.UpdatedAt = time.Now()
}
