package erpformat

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "lower case usd", input: "usd", want: "USD"},
		{name: "canadian dollar remapped", input: "cad", want: "CDN"},
		{name: "mexican peso remapped", input: "mxn", want: "MXP"},
		{name: "surrounding spaces trimmed", input: " eur ", want: "EUR"},
		{name: "legacy code passes through", input: "CDN", want: "CDN"},
		{name: "too short", input: "xx", wantErr: true},
		{name: "too long", input: "euro", wantErr: true},
		{name: "digits rejected", input: "U5D", wantErr: true},
		{name: "non ascii rejected", input: "ÉUR", wantErr: true},
		{name: "blank rejected", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCurrency(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRateString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "5", want: "5.0000000"},
		{input: "0", want: "0.0000000"},
		{input: "1.25", want: "1.25000"},
		{input: "123", want: "123.0000000"},
		{input: "1.0", want: "1.00000"},
		{input: "0.8", want: "0.80000"},
		{input: "0.00001", want: "0.00001"},
		{input: "1.2345678", want: "1.2345678"},
		{input: "1338.38005900", want: "1338.38005900"},
		{input: "1.5e3", want: "1500.0000000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := EncodeRateString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, strings.Count(got, "."), "encoded rate must carry exactly one separator")
		})
	}
}

func TestEncodeRateString_Invalid(t *testing.T) {
	_, err := EncodeRateString("abc")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEncodeRate_FromDecimalValues(t *testing.T) {
	assert.Equal(t, "1.25000", EncodeRate(decimal.NewFromFloat(1.25)))
	assert.Equal(t, "7.0000000", EncodeRate(decimal.NewFromInt(7)))
	assert.Equal(t, "42.0000000", EncodeRate(decimal.NewFromInt(42)))
}

func TestEncodeReciprocal(t *testing.T) {
	tests := []struct {
		encoded string
		want    string
	}{
		{encoded: "1.25000", want: "0.8"},
		{encoded: "5.0000000", want: "0.2"},
		{encoded: "3.0000000", want: "0.33333334"},
		{encoded: "0.50000", want: "2"},
		{encoded: "0.00001", want: "100000"},
	}

	for _, tt := range tests {
		t.Run(tt.encoded, func(t *testing.T) {
			got, err := EncodeReciprocal(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeReciprocal_Invalid(t *testing.T) {
	_, err := EncodeReciprocal("0.0000000")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = EncodeReciprocal("not-a-rate")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// The two encoders disagree for the same magnitude; both strings are persisted as they are.
func TestEncodeReciprocal_DivergesFromEncodeRate(t *testing.T) {
	rate := decimal.RequireFromString("1.25")

	reciprocal, err := EncodeReciprocal(EncodeRate(rate))
	require.NoError(t, err)

	reEncoded := EncodeRate(decimal.NewFromInt(1).Div(rate))

	assert.Equal(t, "0.8", reciprocal)
	assert.Equal(t, "0.80000", reEncoded)
	assert.NotEqual(t, reEncoded, reciprocal)

	third, err := EncodeReciprocal(EncodeRate(decimal.NewFromInt(3)))
	require.NoError(t, err)
	assert.Equal(t, "0.33333334", third, "single precision digits, no padding")
	assert.NotEqual(t, EncodeRate(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))), third)
}

func TestFormatSingle(t *testing.T) {
	tests := []struct {
		name  string
		value float32
		want  string
	}{
		{name: "zero", value: 0, want: "0"},
		{name: "fraction", value: 0.8, want: "0.8"},
		{name: "mixed", value: 1234.5, want: "1234.5"},
		{name: "negative", value: -2.5, want: "-2.5"},
		{name: "smallest fixed exponent", value: 0.0001, want: "0.0001"},
		{name: "below fixed range", value: 0.00001, want: "1E-05"},
		{name: "below fixed range with digits", value: 0.000015, want: "1.5E-05"},
		{name: "largest fixed exponent", value: 1e8, want: "100000000"},
		{name: "above fixed range", value: 1e9, want: "1E+09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSingle(tt.value))
		})
	}
}

func TestToLegacyJulian(t *testing.T) {
	assert.Equal(t, 124015, ToLegacyJulian(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100366, ToLegacyJulian(time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 99001, ToLegacyJulian(time.Date(1999, 1, 1, 23, 59, 59, 0, time.UTC)))

	// Only the UTC calendar date counts.
	eastern := time.FixedZone("UTC-5", -5*60*60)
	assert.Equal(t, 124016, ToLegacyJulian(time.Date(2024, 1, 15, 22, 0, 0, 0, eastern)))
}

func TestFromLegacyJulian(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), FromLegacyJulian(124015))
	assert.Equal(t, time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), FromLegacyJulian(100366))
	assert.Equal(t, 124366, ToLegacyJulian(FromLegacyJulian(124366)))
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, 140322, TimeOfDay(time.Date(2024, 3, 5, 14, 3, 22, 0, time.UTC)))
	assert.Equal(t, 5, TimeOfDay(time.Date(2024, 3, 5, 0, 0, 5, 0, time.UTC)))
}
