package entity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines courier/company persistence operations
type Repository interface {
	Create(ctx context.Context, ent *Entity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entity, error)
}

// ErrEntityNotFound indicates a missing courier or company, leaving the
// caller with no resolvable ledger context
type ErrEntityNotFound struct {
	EntityID uuid.UUID
}

func (e ErrEntityNotFound) Error() string {
	return "entity not found: " + e.EntityID.String()
}

// Is implements the errors.Is interface for ErrEntityNotFound
func (e ErrEntityNotFound) Is(target error) bool {
	t, ok := target.(ErrEntityNotFound)
	if !ok {
		return false
	}
	if t.EntityID == uuid.Nil {
		return true
	}
	return e.EntityID == t.EntityID
}
