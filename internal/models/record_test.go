package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		want      float64
		wantErr   bool
	}{
		{"plain amount", "100.50", true, 100.5, false},
		{"negative amount", "-42", true, -42, false},
		{"empty cell is null", "", false, 0, false},
		{"whitespace only is null", "   ", false, 0, false},
		{"apostrophe thousand separator", "1'234.50", true, 1234.5, false},
		{"decimal comma", "12,5", true, 12.5, false},
		{"embedded spaces", "1 234", true, 1234, false},
		{"garbage fails", "abc", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.True(t, got.Decimal.Equal(decimal.NewFromFloat(tt.want)))
			}
		})
	}
}

func TestRecordClone(t *testing.T) {
	rec := NewRecord()
	rec.Fields["Purpose_code"] = "14030"
	rec.Amounts["Amounts_extended"] = NullFrom(decimal.NewFromInt(100))

	clone := rec.Clone()
	clone.Fields["Purpose_code"] = "15110"
	clone.Amounts["Amounts_extended"] = NullFrom(decimal.NewFromInt(50))

	assert.Equal(t, "14030", rec.Field("Purpose_code"))
	v, ok := rec.Amount("Amounts_extended")
	require.True(t, ok)
	assert.True(t, v.Decimal.Equal(decimal.NewFromInt(100)))
}

func TestRecordAccessors(t *testing.T) {
	rec := NewRecord()
	rec.Fields["Type_of_flow"] = "10"

	assert.Equal(t, "10", rec.Field("Type_of_flow"))
	assert.Equal(t, "", rec.Field("missing"))
	assert.True(t, rec.HasField("Type_of_flow"))
	assert.False(t, rec.HasField("missing"))

	_, ok := rec.Amount("missing")
	assert.False(t, ok)
}

func TestRuleClause(t *testing.T) {
	rule := Rule{
		Bucket:  "240",
		Clauses: map[string]string{"Flow": "10"},
	}

	v, ok := rule.Clause("Flow")
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	_, ok = rule.Clause("Purpose")
	assert.False(t, ok)
}

func TestParseDirective(t *testing.T) {
	assert.Equal(t, Directive{Expr: "G"}, ParseDirective("G", "n/a"))
	assert.Equal(t, Directive{}, ParseDirective("", "n/a"))
	assert.Equal(t, Directive{Skip: true}, ParseDirective("n/a", "n/a"))
	assert.Equal(t, Directive{Skip: true}, ParseDirective("  n/a ", "n/a"))

	// Without a configured placeholder nothing is skipped.
	assert.Equal(t, Directive{Expr: "n/a"}, ParseDirective("n/a", ""))
}

func TestAmountColumnsNames(t *testing.T) {
	a := AmountColumns{Extended: "Ext", Received: "Recv"}
	assert.Equal(t, []string{"Ext", "Recv"}, a.Names())

	assert.Empty(t, AmountColumns{}.Names())
}
