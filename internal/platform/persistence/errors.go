package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPermissionDenied indicates a store-level authorization failure.
// It is surfaced to the caller for reporting and is never retried.
var ErrPermissionDenied = errors.New("store permission denied")

// insufficientPrivilege is the PostgreSQL SQLSTATE for authorization failures
const insufficientPrivilege = "42501"

// MapError translates driver-level errors into the store errors callers
// handle explicitly. Unrecognized errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == insufficientPrivilege {
		return ErrPermissionDenied
	}
	return err
}
