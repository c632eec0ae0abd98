// Package statusconfig holds the administrator-managed rules describing how a
// shipment status affects balances and collection behavior. The engine and the
// ledger both consume an immutable Snapshot taken per call; nothing in this
// package caches across calls.
package statusconfig

import (
	"sort"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
)

// StatusConfig describes one configured shipment status
type StatusConfig struct {
	ID                        string    `json:"id"`
	Label                     string    `json:"label"`
	Enabled                   bool      `json:"enabled"`
	VisibleToCourier          bool      `json:"visible_to_courier"`
	AffectsCourierBalance     bool      `json:"affects_courier_balance"`
	AffectsCompanyBalance     bool      `json:"affects_company_balance"`
	RequiresFullCollection    bool      `json:"requires_full_collection"`
	RequiresPartialCollection bool      `json:"requires_partial_collection"`
	IsDeliveredStatus         bool      `json:"is_delivered_status"`
	IsReturnedStatus          bool      `json:"is_returned_status"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// AffectsBalance reports whether this status contributes to the given role's
// balance, i.e. whether a shipment in this status is "finished" for that role
func (c StatusConfig) AffectsBalance(role entity.Role) bool {
	if role == entity.RoleCourier {
		return c.AffectsCourierBalance
	}
	return c.AffectsCompanyBalance
}

// Snapshot is a point-in-time read of the full status configuration.
// Lookups are by status id; a missing id simply yields ok=false.
type Snapshot struct {
	byID map[string]StatusConfig
}

// NewSnapshot builds a Snapshot from the configured statuses.
// Later duplicates of the same id overwrite earlier ones.
func NewSnapshot(configs []StatusConfig) Snapshot {
	byID := make(map[string]StatusConfig, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
	}
	return Snapshot{byID: byID}
}

// Lookup returns the config for a status id, if configured
func (s Snapshot) Lookup(statusID string) (StatusConfig, bool) {
	c, ok := s.byID[statusID]
	return c, ok
}

// FinishedStatuses returns the ids of statuses that contribute to the given
// role's balance. Shipments in these statuses are the ones a settlement
// archives for that role.
func (s Snapshot) FinishedStatuses(role entity.Role) []string {
	var ids []string
	for id, c := range s.byID {
		if c.AffectsBalance(role) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of configured statuses
func (s Snapshot) Len() int {
	return len(s.byID)
}
