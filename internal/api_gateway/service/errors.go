package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrRoleMismatch is returned when the role supplied by the caller does
// not match the role stored on the entity.
var ErrRoleMismatch = errors.New("entity role does not match requested role")

// ErrSettlementFailed wraps the transaction error that aborted a settlement.
type ErrSettlementFailed struct {
	EntityID uuid.UUID
	Err      error
}

func (e *ErrSettlementFailed) Error() string {
	return fmt.Sprintf("settlement for entity %s failed: %v", e.EntityID, e.Err)
}

func (e *ErrSettlementFailed) Unwrap() error {
	return e.Err
}

func (e *ErrSettlementFailed) Is(target error) bool {
	_, ok := target.(*ErrSettlementFailed)
	return ok
}

// ErrSettlementConflict is returned when the entity's balance changed
// between the pre-check and the settlement transaction. The caller can
// safely retry.
type ErrSettlementConflict struct {
	EntityID uuid.UUID
}

func (e *ErrSettlementConflict) Error() string {
	return fmt.Sprintf("settlement conflict: balance for entity %s changed during settlement", e.EntityID)
}

func (e *ErrSettlementConflict) Is(target error) bool {
	_, ok := target.(*ErrSettlementConflict)
	return ok
}
