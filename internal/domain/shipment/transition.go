package shipment

import "github.com/delivery-settlement-ledger/internal/domain/statusconfig"

// Deltas are the financial values a status change writes onto a shipment
type Deltas struct {
	PaidAmount        float64
	CollectedAmount   float64
	CourierCommission float64
}

// Transition computes the financial deltas a status change produces. It is a
// pure function over the supplied configuration snapshot; callers persist the
// returned values onto the shipment.
//
// An unknown or disabled status is a no-op (all-zero deltas); disabled
// statuses stay in the snapshot only so shipments already carrying them can
// be settled and archived. Full-collection statuses
// record the shipment total as paid; partial-collection statuses record
// whatever the courier reports as collected. CollectedAmount mirrors
// PaidAmount in every configured status today; the fields stay separate so a
// provisional collected figure can diverge later without a schema change.
func Transition(status string, totalAmount, collectedAmountInput, commissionRate float64, configs statusconfig.Snapshot) Deltas {
	cfg, ok := configs.Lookup(status)
	if !ok || !cfg.Enabled {
		return Deltas{}
	}

	var paid float64
	switch {
	case cfg.RequiresFullCollection:
		paid = totalAmount
	case cfg.RequiresPartialCollection:
		paid = collectedAmountInput
	}

	var commission float64
	if cfg.AffectsCourierBalance {
		commission = commissionRate
	}

	return Deltas{
		PaidAmount:        paid,
		CollectedAmount:   paid,
		CourierCommission: commission,
	}
}
