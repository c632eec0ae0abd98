package sheet

import (
	"fmt"
	"strings"
	"unicode"
)

// Partner companies export sheets from several regional tools, so every field
// carries Arabic and English header variants. Matching is case-insensitive
// substring.
var fieldKeywords = map[Field][]string{
	FieldCode:           {"code", "كود", "رقم الشحنة", "رقم البوليصة", "barcode", "باركود"},
	FieldAmount:         {"amount", "قيمة", "المبلغ", "سعر", "price", "total", "الاجمالي", "الإجمالي", "cod"},
	FieldRecipientName:  {"name", "اسم", "العميل", "المستلم", "recipient", "client"},
	FieldRecipientPhone: {"phone", "هاتف", "موبايل", "تليفون", "رقم العميل", "mobile", "tel"},
	FieldAddress:        {"address", "عنوان", "العنوان"},
	FieldGovernorate:    {"governorate", "محافظة", "المحافظة", "city", "مدينة", "منطقة"},
}

// fieldPriority is the order cells are tested against fields. Code comes
// before amount so a "Code" or "Barcode" header never binds the amount
// column through the "cod" keyword.
var fieldPriority = []Field{
	FieldCode,
	FieldAmount,
	FieldRecipientName,
	FieldRecipientPhone,
	FieldAddress,
	FieldGovernorate,
}

// HeaderLayout is the result of header resolution: the header row index and
// the column each resolved field was found in. Data rows follow Row.
type HeaderLayout struct {
	Row     int
	Columns map[Field]int
}

// Column returns the resolved column for a field
func (h HeaderLayout) Column(f Field) (int, bool) {
	col, ok := h.Columns[f]
	return col, ok
}

// ErrHeaderNotFound means no header row yielding both a code and an amount
// column exists; the whole import is unusable without those two columns.
type ErrHeaderNotFound struct {
	RowsScanned int
	Missing     []Field
}

func (e ErrHeaderNotFound) Error() string {
	missing := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		missing[i] = string(f)
	}
	return fmt.Sprintf("no usable header row in %d rows, missing fields: %s", e.RowsScanned, strings.Join(missing, ", "))
}

// ResolveHeader scans raw rows for the header row. Fields resolve to the
// first cell whose text contains one of their keywords; each cell resolves
// at most one field, and a field resolved in an earlier row keeps its
// column. The first row that newly resolves at least
// two distinct fields is selected as the header row. Resolution fails unless
// both the code and amount columns were found.
func ResolveHeader(rows [][]any) (HeaderLayout, error) {
	layout := HeaderLayout{Row: -1, Columns: make(map[Field]int)}

	for rowIdx, row := range rows {
		resolvedInRow := 0
		for colIdx, cell := range row {
			text := strings.ToLower(strings.TrimSpace(cellString(cell)))
			if text == "" {
				continue
			}
			// A cell binds at most one field, first match in priority
			// order, so keyword overlap across fields cannot claim the
			// same column twice.
			for _, field := range fieldPriority {
				if _, done := layout.Columns[field]; done {
					continue
				}
				if containsAny(text, fieldKeywords[field]) {
					layout.Columns[field] = colIdx
					resolvedInRow++
					break
				}
			}
		}
		if resolvedInRow >= 2 {
			layout.Row = rowIdx
			break
		}
	}

	var missing []Field
	for _, required := range []Field{FieldCode, FieldAmount} {
		if _, ok := layout.Columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if layout.Row < 0 || len(missing) > 0 {
		if len(missing) == 0 {
			// Fields resolved but never two in one row; the sheet has no
			// recognizable header line to anchor data rows on.
			missing = []Field{FieldCode, FieldAmount}
		}
		return HeaderLayout{}, ErrHeaderNotFound{RowsScanned: len(rows), Missing: missing}
	}

	return layout, nil
}

// containsAny reports whether text matches any keyword. Short keywords such
// as "cod" or "tel" match whole words only; a substring match would let them
// fire inside unrelated headers like "Barcode".
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if len(kw) <= 3 {
			if containsWord(text, kw) {
				return true
			}
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

// cellString renders a raw cell value for keyword matching. Spreadsheet
// collaborators may hand over strings, numbers or nils depending on the
// source format.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
