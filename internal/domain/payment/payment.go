// Package payment models money handed over between the operator and a
// courier or company. Payments stop counting toward a ledger once archived
// by a settlement; the flag is set once and never cleared.
package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidAmount rejects non-positive payment amounts
var ErrInvalidAmount = errors.New("payment amount must be positive")

// Payment represents a recorded payment for a courier or company
type Payment struct {
	ID         uuid.UUID `json:"id"`
	EntityID   uuid.UUID `json:"entity_id"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note,omitempty"`
	Archived   bool      `json:"archived"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewPayment creates a manually entered payment, active by default
func NewPayment(entityID uuid.UUID, amount float64, note string) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Payment{
		ID:         uuid.New(),
		EntityID:   entityID,
		Amount:     amount,
		Note:       note,
		RecordedAt: time.Now(),
	}, nil
}

// NewClosingPayment creates the payment a settlement records to zero out an
// entity's net due. It is born archived so it never feeds a future balance.
func NewClosingPayment(entityID uuid.UUID, amount float64, note string) (*Payment, error) {
	p, err := NewPayment(entityID, amount, note)
	if err != nil {
		return nil, err
	}
	p.Archived = true
	return p, nil
}
