package statusconfig

import "context"

// Repository reads the administrator-managed status configuration.
// Writes happen through administrative tooling outside this service.
type Repository interface {
	// GetSnapshot loads the full current configuration as an immutable snapshot
	GetSnapshot(ctx context.Context) (Snapshot, error)
}
