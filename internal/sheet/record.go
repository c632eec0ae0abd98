// Package sheet turns raw settlement-sheet rows into canonical records the
// reconciliation matcher can consume. It locates the header row by keyword,
// then normalizes each data row into a code/amount pair plus open metadata.
// Records are ephemeral; nothing in this package is persisted.
package sheet

// Field identifies a logical column of a settlement sheet
type Field string

const (
	FieldCode           Field = "code"
	FieldAmount         Field = "amount"
	FieldRecipientName  Field = "recipient_name"
	FieldRecipientPhone Field = "recipient_phone"
	FieldAddress        Field = "address"
	FieldGovernorate    Field = "governorate"
)

// Record is one normalized settlement-sheet row
type Record struct {
	Code     string            `json:"code"`
	Amount   float64           `json:"amount"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RejectedRow reports a data row that could not be normalized.
// Row is the zero-based index into the raw sheet.
type RejectedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
