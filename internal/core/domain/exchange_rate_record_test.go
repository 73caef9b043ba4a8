package domain_test

import (
	"testing"

	"github.com/SscSPs/forex_import_job/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestExchangeRateRecordPair_Rows(t *testing.T) {
	pair := domain.ExchangeRateRecordPair{
		BaseCode:          "USD",
		QuoteCode:         "CDN",
		EncodedRate:       "1.25000",
		EncodedReciprocal: "0.8",
		JulianDate:        124015,
		AuditFields: domain.AuditFields{
			User:      "WINJOBUSER",
			ProgramID: "FOREXEXCH",
			JobName:   "FOREXAPI",
			TimeOfDay: 140322,
		},
	}

	rows := pair.Rows()
	assert.Len(t, rows, 2)

	direct, mirror := rows[0], rows[1]
	assert.Equal(t, "USD", direct.CurrencyCode)
	assert.Equal(t, "CDN", direct.CounterCurrency)
	assert.Equal(t, "1.25000", direct.Rate)
	assert.Equal(t, "0.8", direct.ReverseRate)

	assert.Equal(t, "CDN", mirror.CurrencyCode)
	assert.Equal(t, "USD", mirror.CounterCurrency)
	assert.Equal(t, "0.8", mirror.Rate)
	assert.Equal(t, "1.25000", mirror.ReverseRate)

	for _, row := range rows {
		assert.Equal(t, 124015, row.EffectiveDate)
		assert.Equal(t, 124015, row.UpdatedDate)
		assert.Zero(t, row.AddressNumber)
		assert.Zero(t, row.CurrencyDecimals)
		assert.Equal(t, "WINJOBUSER", row.User)
		assert.Equal(t, 140322, row.TimeOfDay)
	}
}

func TestRecordKey_Reversed(t *testing.T) {
	key := domain.RecordKey{BaseCode: "USD", QuoteCode: "EUR", JulianDate: 124015}
	assert.Equal(t, domain.RecordKey{BaseCode: "EUR", QuoteCode: "USD", JulianDate: 124015}, key.Reversed())
	assert.Equal(t, key, key.Reversed().Reversed())
}

func TestImportReport_Attempted(t *testing.T) {
	report := domain.ImportReport{Persisted: 3, Skipped: 2, Failures: []domain.RowFailure{{}}}
	assert.Equal(t, 4, report.Attempted())
}
