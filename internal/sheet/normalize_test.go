package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutFor(t *testing.T, rows [][]any) HeaderLayout {
	t.Helper()
	layout, err := ResolveHeader(rows)
	require.NoError(t, err)
	return layout
}

func TestNormalize(t *testing.T) {
	t.Run("NumericAndStringAmounts", func(t *testing.T) {
		rows := [][]any{
			{"code", "amount", "name"},
			{"SH-1", 100.0, "Ali"},
			{"SH-2", "1,250.50 EGP", "Mona"},
			{"SH-3", "  300 ", ""},
		}

		records, rejected := Normalize(rows, layoutFor(t, rows))

		require.Len(t, records, 3)
		assert.Empty(t, rejected)
		assert.Equal(t, Record{Code: "SH-1", Amount: 100, Metadata: map[string]string{"recipient_name": "Ali"}}, records[0])
		assert.Equal(t, "SH-2", records[1].Code)
		assert.Equal(t, 1250.50, records[1].Amount)
		assert.Equal(t, 300.0, records[2].Amount)
		assert.Nil(t, records[2].Metadata, "blank metadata cells are not collected")
	})

	t.Run("RejectsEmptyCodeAndBadAmount", func(t *testing.T) {
		rows := [][]any{
			{"code", "amount"},
			{"   ", 100},
			{"SH-2", "no digits here"},
			{"SH-3", nil},
			{"SH-4", 50},
		}

		records, rejected := Normalize(rows, layoutFor(t, rows))

		require.Len(t, records, 1)
		assert.Equal(t, "SH-4", records[0].Code)

		require.Len(t, rejected, 3)
		assert.Equal(t, 1, rejected[0].Row)
		assert.Contains(t, rejected[0].Reason, "empty shipment code")
		assert.Equal(t, 2, rejected[1].Row)
		assert.Contains(t, rejected[1].Reason, "unusable amount")
		assert.Equal(t, 3, rejected[2].Row)
	})

	t.Run("LastOccurrenceWinsKeepingOrder", func(t *testing.T) {
		rows := [][]any{
			{"code", "amount"},
			{"SH-1", 100},
			{"SH-2", 200},
			{"SH-1", 150},
		}

		records, rejected := Normalize(rows, layoutFor(t, rows))

		assert.Empty(t, rejected)
		require.Len(t, records, 2)
		assert.Equal(t, "SH-1", records[0].Code, "duplicate keeps its first position")
		assert.Equal(t, 150.0, records[0].Amount, "later occurrence overwrites the amount")
		assert.Equal(t, "SH-2", records[1].Code)
	})

	t.Run("ShortRowsAreHandled", func(t *testing.T) {
		rows := [][]any{
			{"code", "amount", "phone"},
			{"SH-1"}, // no amount cell at all
		}

		records, rejected := Normalize(rows, layoutFor(t, rows))

		assert.Empty(t, records)
		require.Len(t, rejected, 1)
		assert.Contains(t, rejected[0].Reason, "unusable amount")
	})

	t.Run("CodeIsTrimmed", func(t *testing.T) {
		rows := [][]any{
			{"code", "amount"},
			{"  SH-9  ", "75"},
		}

		records, _ := Normalize(rows, layoutFor(t, rows))

		require.Len(t, records, 1)
		assert.Equal(t, "SH-9", records[0].Code)
	})
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		cell    any
		want    float64
		wantErr bool
	}{
		{"Float", 99.5, 99.5, false},
		{"Int", 40, 40, false},
		{"PlainString", "120", 120, false},
		{"CurrencyString", "EGP 1,000.25", 1000.25, false},
		{"Whitespace", " 55 ", 55, false},
		{"Empty", "", 0, true},
		{"Letters", "abc", 0, true},
		{"Nil", nil, 0, true},
		{"Bool", true, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAmount(tc.cell)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
