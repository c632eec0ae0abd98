package shipment

import (
	"testing"

	"github.com/delivery-settlement-ledger/internal/domain/statusconfig"
	"github.com/stretchr/testify/assert"
)

func testSnapshot() statusconfig.Snapshot {
	return statusconfig.NewSnapshot([]statusconfig.StatusConfig{
		{
			ID:                     "Delivered",
			Label:                  "Delivered",
			Enabled:                true,
			RequiresFullCollection: true,
			AffectsCourierBalance:  true,
			AffectsCompanyBalance:  true,
			IsDeliveredStatus:      true,
		},
		{
			ID:                        "PartiallyDelivered",
			Label:                     "Partially Delivered",
			Enabled:                   true,
			RequiresPartialCollection: true,
			AffectsCourierBalance:     true,
			AffectsCompanyBalance:     true,
		},
		{
			ID:                    "Returned",
			Label:                 "Returned",
			Enabled:               true,
			AffectsCourierBalance: true,
			IsReturnedStatus:      true,
		},
		{
			ID:      "Pending",
			Label:   "Pending",
			Enabled: true,
		},
		{
			ID:                     "CashCollected",
			Label:                  "Cash Collected",
			Enabled:                false,
			RequiresFullCollection: true,
			AffectsCourierBalance:  true,
			AffectsCompanyBalance:  true,
		},
	})
}

func TestTransition(t *testing.T) {
	configs := testSnapshot()

	t.Run("FullCollectionRecordsTotal", func(t *testing.T) {
		d := Transition("Delivered", 200, 0, 20, configs)

		assert.Equal(t, 200.0, d.PaidAmount)
		assert.Equal(t, 200.0, d.CollectedAmount)
		assert.Equal(t, 20.0, d.CourierCommission)
	})

	t.Run("PartialCollectionRecordsInput", func(t *testing.T) {
		d := Transition("PartiallyDelivered", 200, 75, 20, configs)

		assert.Equal(t, 75.0, d.PaidAmount)
		assert.Equal(t, 75.0, d.CollectedAmount)
		assert.Equal(t, 20.0, d.CourierCommission)
	})

	t.Run("NoCollectionStatusPaysNothing", func(t *testing.T) {
		d := Transition("Returned", 200, 50, 20, configs)

		assert.Equal(t, 0.0, d.PaidAmount)
		assert.Equal(t, 0.0, d.CollectedAmount)
		assert.Equal(t, 20.0, d.CourierCommission, "returned shipments still owe the courier commission")
	})

	t.Run("StatusOutsideCourierBalanceHasNoCommission", func(t *testing.T) {
		d := Transition("Pending", 200, 0, 20, configs)

		assert.Equal(t, Deltas{}, d)
	})

	t.Run("UnknownStatusIsNoOp", func(t *testing.T) {
		d := Transition("SomethingElse", 500, 100, 30, configs)

		assert.Equal(t, Deltas{}, d)
	})

	t.Run("DisabledStatusIsNoOp", func(t *testing.T) {
		d := Transition("CashCollected", 500, 100, 30, configs)

		assert.Equal(t, Deltas{}, d)
	})

	t.Run("ZeroValueInputsTreatedAsZero", func(t *testing.T) {
		d := Transition("PartiallyDelivered", 0, 0, 0, configs)

		assert.Equal(t, Deltas{}, d)
	})

	t.Run("CollectedAlwaysMirrorsPaid", func(t *testing.T) {
		for _, status := range []string{"Delivered", "PartiallyDelivered", "Returned", "Pending"} {
			d := Transition(status, 120, 60, 15, configs)
			assert.Equal(t, d.PaidAmount, d.CollectedAmount, "status %s", status)
		}
	})
}

func TestShipment_Apply(t *testing.T) {
	s, err := NewShipment("SH-100", "ORD-1", mustUUID(t), 150, 5, "Pending")
	assert.NoError(t, err)

	d := Transition("Delivered", s.TotalAmount, 0, 10, testSnapshot())
	s.Apply("Delivered", d)

	assert.Equal(t, "Delivered", s.Status)
	assert.Equal(t, 150.0, s.PaidAmount)
	assert.Equal(t, 150.0, s.CollectedAmount)
	assert.Equal(t, 10.0, s.CourierCommission)
	assert.Equal(t, 5.0, s.CompanyCommission, "company commission is set at intake, not by transitions")
}
