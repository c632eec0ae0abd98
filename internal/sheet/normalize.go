package sheet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// metadataFields are collected verbatim when their column resolved
var metadataFields = []Field{FieldRecipientName, FieldRecipientPhone, FieldAddress, FieldGovernorate}

// Normalize converts the data rows after the header into canonical records.
// Rows with an empty code or an unparsable amount are rejected, reported and
// skipped; processing always continues with the next row. Records keep sheet
// order; a later row reusing a code overwrites the earlier record in place,
// so the last occurrence wins without disturbing insertion order.
func Normalize(rows [][]any, layout HeaderLayout) ([]Record, []RejectedRow) {
	codeCol := layout.Columns[FieldCode]
	amountCol := layout.Columns[FieldAmount]

	var records []Record
	index := make(map[string]int) // code -> position in records
	var rejected []RejectedRow

	for rowIdx := layout.Row + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]

		code := strings.TrimSpace(cellString(cellAt(row, codeCol)))
		if code == "" {
			rejected = append(rejected, RejectedRow{Row: rowIdx, Reason: "empty shipment code"})
			continue
		}

		amount, err := parseAmount(cellAt(row, amountCol))
		if err != nil {
			rejected = append(rejected, RejectedRow{Row: rowIdx, Reason: fmt.Sprintf("unusable amount: %v", err)})
			continue
		}

		rec := Record{Code: code, Amount: amount}
		for _, f := range metadataFields {
			col, ok := layout.Columns[f]
			if !ok {
				continue
			}
			if v := strings.TrimSpace(cellString(cellAt(row, col))); v != "" {
				if rec.Metadata == nil {
					rec.Metadata = make(map[string]string)
				}
				rec.Metadata[string(f)] = v
			}
		}

		if pos, seen := index[code]; seen {
			records[pos] = rec
		} else {
			index[code] = len(records)
			records = append(records, rec)
		}
	}

	return records, rejected
}

func cellAt(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// parseAmount accepts numeric cells directly and scrubs string cells down to
// digits and the decimal point before parsing. Anything non-finite is
// rejected.
func parseAmount(cell any) (float64, error) {
	switch v := cell.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case float64:
		return checkFinite(v)
	case float32:
		return checkFinite(float64(v))
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v.String())
		}
		return checkFinite(f)
	case string:
		cleaned := stripNonNumeric(v)
		if cleaned == "" {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return checkFinite(f)
	default:
		return 0, fmt.Errorf("unsupported cell type %T", cell)
	}
}

func checkFinite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// stripNonNumeric drops everything except digits and the decimal point,
// tolerating currency symbols, thousands separators and stray whitespace
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
