package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delivery-settlement-ledger/internal/domain/statusconfig"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
)

// StatusConfigRepository implements the statusconfig.Repository interface for
// PostgreSQL. The configuration is administrator-managed reference data; this
// repository only reads it.
type StatusConfigRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewStatusConfigRepository creates a new PostgreSQL status config repository
func NewStatusConfigRepository(logger *slog.Logger, db *persistence.PostgresDB) statusconfig.Repository {
	return &StatusConfigRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetSnapshot loads the full current status configuration, disabled rows
// included. A status retired by an administrator must stay resolvable for
// the shipments already sitting in it, so filtering on the enabled flag is
// left to the callers. Callers take a fresh snapshot per operation; nothing
// is cached here.
func (r *StatusConfigRepository) GetSnapshot(ctx context.Context) (statusconfig.Snapshot, error) {
	query := `
		SELECT id, label, enabled, visible_to_courier,
			affects_courier_balance, affects_company_balance,
			requires_full_collection, requires_partial_collection,
			is_delivered_status, is_returned_status, updated_at
		FROM status_configs
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to load status configs", "error", err)
		return statusconfig.Snapshot{}, fmt.Errorf("failed to load status configs: %w", persistence.MapError(err))
	}
	defer rows.Close()

	var configs []statusconfig.StatusConfig
	for rows.Next() {
		var c statusconfig.StatusConfig
		err := rows.Scan(
			&c.ID,
			&c.Label,
			&c.Enabled,
			&c.VisibleToCourier,
			&c.AffectsCourierBalance,
			&c.AffectsCompanyBalance,
			&c.RequiresFullCollection,
			&c.RequiresPartialCollection,
			&c.IsDeliveredStatus,
			&c.IsReturnedStatus,
			&c.UpdatedAt,
		)
		if err != nil {
			return statusconfig.Snapshot{}, fmt.Errorf("failed to scan status config: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return statusconfig.Snapshot{}, fmt.Errorf("failed to read status configs: %w", err)
	}

	return statusconfig.NewSnapshot(configs), nil
}
