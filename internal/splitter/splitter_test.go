package splitter

import (
	"testing"

	"crs-report/internal/enginerror"
	"crs-report/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	purposeCol  = "Purpose_code"
	extendedCol = "Amounts_extended"
	receivedCol = "Amounts_received"
)

func makeRecord(purpose string, extended float64) models.Record {
	rec := models.NewRecord()
	rec.Fields[purposeCol] = purpose
	rec.Fields["Type_of_finance"] = "G"
	rec.Amounts[extendedCol] = models.NullFrom(decimal.NewFromFloat(extended))
	rec.Amounts[receivedCol] = decimal.NullDecimal{}
	return rec
}

func amount(t *testing.T, rec models.Record, col string) decimal.Decimal {
	t.Helper()
	v, ok := rec.Amount(col)
	require.True(t, ok)
	require.True(t, v.Valid)
	return v.Decimal
}

func TestExpandPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
	}{
		{"empty composite column", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := makeRecord(tt.purpose, 200)
			out, warnings, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
			require.NoError(t, err)
			assert.Empty(t, warnings)
			require.Len(t, out, 1)
			assert.True(t, amount(t, out[0], extendedCol).Equal(decimal.NewFromInt(200)))
			assert.Equal(t, tt.purpose, out[0].Field(purposeCol))
		})
	}
}

func TestExpandSingleCodeNoPercentage(t *testing.T) {
	rec := makeRecord("14030", 200)
	out, warnings, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	assert.Equal(t, "14030", out[0].Field(purposeCol))
	assert.True(t, amount(t, out[0], extendedCol).Equal(decimal.NewFromInt(200)))
}

func TestExpandSplitsAndScales(t *testing.T) {
	rec := makeRecord("14030:60|15110:40", 100)
	out, warnings, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, out, 2)

	assert.Equal(t, "14030", out[0].Field(purposeCol))
	assert.True(t, amount(t, out[0], extendedCol).Equal(decimal.NewFromInt(60)))

	assert.Equal(t, "15110", out[1].Field(purposeCol))
	assert.True(t, amount(t, out[1], extendedCol).Equal(decimal.NewFromInt(40)))

	// Mass conservation: the split parts sum back to the original.
	total := amount(t, out[0], extendedCol).Add(amount(t, out[1], extendedCol))
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestExpandDoesNotMutateInput(t *testing.T) {
	rec := makeRecord("14030:50|15110:50", 200)
	_, _, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
	require.NoError(t, err)

	assert.Equal(t, "14030:50|15110:50", rec.Field(purposeCol))
	assert.True(t, amount(t, rec, extendedCol).Equal(decimal.NewFromInt(200)))
}

func TestExpandMalformedPercentage(t *testing.T) {
	rec := makeRecord("14030:abc", 80)
	out, warnings, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, purposeCol, warnings[0].Field)
	assert.Equal(t, "14030", out[0].Field(purposeCol))
	assert.True(t, amount(t, out[0], extendedCol).Equal(decimal.NewFromInt(80)))
}

func TestExpandDelimiterOnlyValue(t *testing.T) {
	rec := makeRecord("|", 150)
	out, warnings, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "", out[0].Field(purposeCol))
	assert.True(t, amount(t, out[0], extendedCol).Equal(decimal.NewFromInt(150)))
}

func TestExpandKeepsNullAmountsNull(t *testing.T) {
	rec := makeRecord("14030:50|15110:50", 100)
	out, _, err := Expand([]models.Record{rec}, purposeCol, []string{extendedCol, receivedCol})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, r := range out {
		v, ok := r.Amount(receivedCol)
		require.True(t, ok)
		assert.False(t, v.Valid)
	}
}

func TestExpandNonAmountColumnFails(t *testing.T) {
	rec := makeRecord("14030:50|15110:50", 100)
	_, _, err := Expand([]models.Record{rec}, purposeCol, []string{"Type_of_finance"})
	require.Error(t, err)
	var cfgErr *enginerror.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Type_of_finance", cfgErr.Field)
}

func TestExpandMissingAmountColumnFails(t *testing.T) {
	rec := makeRecord("14030", 100)
	_, _, err := Expand([]models.Record{rec}, purposeCol, []string{"No_such_column"})
	require.Error(t, err)
	var cfgErr *enginerror.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestExpandPreservesOrder(t *testing.T) {
	recs := []models.Record{
		makeRecord("14030:50|15110:50", 100),
		makeRecord("23110", 40),
		makeRecord("31120:25|31130:75", 400),
	}
	out, _, err := Expand(recs, purposeCol, []string{extendedCol})
	require.NoError(t, err)
	require.Len(t, out, 5)

	codes := make([]string, len(out))
	for i, r := range out {
		codes[i] = r.Field(purposeCol)
	}
	assert.Equal(t, []string{"14030", "15110", "23110", "31120", "31130"}, codes)
}

func TestParsePart(t *testing.T) {
	tests := []struct {
		name          string
		part          string
		wantCode      string
		wantPct       int64
		wantMalformed bool
	}{
		{"code only", "14030", "14030", 100, false},
		{"code with percentage", "14030:50", "14030", 50, false},
		{"non-numeric code kept literally", "A:60", "A", 60, false},
		{"trailing junk after digits dropped", "14030b:20", "14030", 20, false},
		{"malformed percentage", "14030:abc", "14030", 100, true},
		{"negative percentage", "14030:-5", "14030", 100, true},
		{"empty percentage after colon", "14030:", "14030", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, pct, malformed := parsePart(tt.part)
			assert.Equal(t, tt.wantCode, code)
			assert.True(t, pct.Equal(decimal.NewFromInt(tt.wantPct)))
			assert.Equal(t, tt.wantMalformed, malformed)
		})
	}
}
