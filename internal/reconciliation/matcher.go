// Package reconciliation matches an externally supplied settlement sheet
// against a company's tracked shipments for a target date, classifying every
// record into exactly one outcome bucket.
package reconciliation

import (
	"math"
	"time"

	"github.com/delivery-settlement-ledger/internal/domain/shipment"
	"github.com/delivery-settlement-ledger/internal/sheet"
	"github.com/google/uuid"
)

// AmountTolerance is the equality band for sheet-vs-system amounts.
// A difference of exactly 0.01 is a discrepancy, not a match.
const AmountTolerance = 0.01

// Matched pairs a sheet record with the same-date shipment it settled
type Matched struct {
	Record   sheet.Record       `json:"record"`
	Shipment *shipment.Shipment `json:"shipment"`
}

// Discrepancy pairs a sheet record with a shipment whose amount disagrees.
// Difference is sheet minus system, sign preserved: positive means the sheet
// claims more money than the system tracked.
type Discrepancy struct {
	Record     sheet.Record       `json:"record"`
	Shipment   *shipment.Shipment `json:"shipment"`
	Difference float64            `json:"difference"`
}

// Result holds the five disjoint classification buckets. Their union covers
// every sheet record and every same-date shipment exactly once.
type Result struct {
	CompanyID      uuid.UUID            `json:"company_id"`
	Date           time.Time            `json:"date"`
	Matched        []Matched            `json:"matched"`
	Discrepancies  []Discrepancy        `json:"discrepancies"`
	DateMismatches []Discrepancy        `json:"date_mismatches"`
	SheetOnly      []sheet.Record       `json:"sheet_only"`
	SystemOnly     []*shipment.Shipment `json:"system_only"`
}

// Match classifies every sheet record and every same-date shipment of the
// company. Shipments are partitioned by whether they were created on the
// target date; sheet records are resolved against the same-date pool first
// (consuming the shipment so one sheet row cannot settle it twice), then the
// other-date pool (without consumption), then fall through to sheet-only.
// Whatever the sheet never claimed from the same-date pool ends up
// system-only.
//
// Within a pool, the first shipment in creation order whose code or order
// number equals the sheet code wins. The inputs are never mutated;
// consumption is tracked in a visited set, so running Match twice on the same
// inputs yields identical buckets.
func Match(companyID uuid.UUID, date time.Time, shipments []*shipment.Shipment, records []sheet.Record) Result {
	result := Result{
		CompanyID:      companyID,
		Date:           date,
		Matched:        []Matched{},
		Discrepancies:  []Discrepancy{},
		DateMismatches: []Discrepancy{},
		SheetOnly:      []sheet.Record{},
		SystemOnly:     []*shipment.Shipment{},
	}

	var sameDate, otherDate []*shipment.Shipment
	for _, s := range shipments {
		if sameDay(s.CreatedAt, date) {
			sameDate = append(sameDate, s)
		} else {
			otherDate = append(otherDate, s)
		}
	}

	consumed := make([]bool, len(sameDate))

	for _, rec := range records {
		if idx := findUnconsumed(sameDate, consumed, rec.Code); idx >= 0 {
			s := sameDate[idx]
			consumed[idx] = true

			diff := rec.Amount - s.TotalAmount
			if math.Abs(diff) < AmountTolerance {
				result.Matched = append(result.Matched, Matched{Record: rec, Shipment: s})
			} else {
				result.Discrepancies = append(result.Discrepancies, Discrepancy{Record: rec, Shipment: s, Difference: diff})
			}
			continue
		}

		if s := findAny(otherDate, rec.Code); s != nil {
			result.DateMismatches = append(result.DateMismatches, Discrepancy{
				Record:     rec,
				Shipment:   s,
				Difference: rec.Amount - s.TotalAmount,
			})
			continue
		}

		result.SheetOnly = append(result.SheetOnly, rec)
	}

	for i, s := range sameDate {
		if !consumed[i] {
			result.SystemOnly = append(result.SystemOnly, s)
		}
	}

	return result
}

// findUnconsumed returns the index of the first not-yet-consumed shipment
// matching the code, or -1
func findUnconsumed(pool []*shipment.Shipment, consumed []bool, code string) int {
	for i, s := range pool {
		if !consumed[i] && s.MatchesCode(code) {
			return i
		}
	}
	return -1
}

// findAny returns the first shipment matching the code, or nil
func findAny(pool []*shipment.Shipment, code string) *shipment.Shipment {
	for _, s := range pool {
		if s.MatchesCode(code) {
			return s
		}
	}
	return nil
}

// sameDay reports whether two instants fall on the same UTC calendar date.
// Timestamps decoded from timestamptz columns arrive in the session zone,
// so both sides are normalized before their date components are compared.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
