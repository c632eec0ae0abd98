// Package entity models the two parties a shipment settles against: the
// courier carrying it and the company shipping it. Both share one ledger
// shape; the Role decides which commission field and archive flag apply.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName   = errors.New("entity name cannot be empty")
	ErrInvalidRole = errors.New("role must be courier or company")
)

// Role distinguishes the two ledger-bearing parties
type Role string

const (
	RoleCourier Role = "COURIER"
	RoleCompany Role = "COMPANY"
)

// ParseRole validates a role string supplied by a caller
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCourier, RoleCompany:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Entity represents a courier or a shipping company
type Entity struct {
	ID             uuid.UUID `json:"id"`
	Role           Role      `json:"role"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	CommissionRate float64   `json:"commission_rate"` // Per-shipment courier commission; zero for companies
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEntity creates a new courier or company with the given parameters
func NewEntity(role Role, name, phone string, commissionRate float64) (*Entity, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if role != RoleCourier && role != RoleCompany {
		return nil, ErrInvalidRole
	}

	return &Entity{
		ID:             uuid.New(),
		Role:           role,
		Name:           name,
		Phone:          phone,
		CommissionRate: commissionRate,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}
