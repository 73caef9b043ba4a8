package domain

// RecordKey identifies a stored pair: the mirror row carries PXCRCD = Quote, PXCRDC = Base and
// PXUPMJ = JulianDate, which is what the existence check looks up.
type RecordKey struct {
	BaseCode   string `json:"baseCode"`
	QuoteCode  string `json:"quoteCode"`
	JulianDate int    `json:"julianDate"`
}

// Reversed swaps base and quote, i.e. the key of the direct row.
func (k RecordKey) Reversed() RecordKey {
	return RecordKey{BaseCode: k.QuoteCode, QuoteCode: k.BaseCode, JulianDate: k.JulianDate}
}

// ExchangeRateRecord is one row of the ERP currency-exchange table.
type ExchangeRateRecord struct {
	CurrencyCode     string `json:"currencyCode"`     // PXCRCD
	CounterCurrency  string `json:"counterCurrency"`  // PXCRDC
	Rate             string `json:"rate"`             // PXCRRD
	ReverseRate      string `json:"reverseRate"`      // PXCRR
	EffectiveDate    int    `json:"effectiveDate"`    // PXEFT
	UpdatedDate      int    `json:"updatedDate"`      // PXUPMJ
	AddressNumber    int    `json:"addressNumber"`    // PXAN8, always 0
	CurrencyDecimals int    `json:"currencyDecimals"` // PXCDEC, always 0
	AuditFields
}

// ExchangeRateRecordPair is the direct row and its mirror, written together but not atomically.
type ExchangeRateRecordPair struct {
	BaseCode          string `json:"baseCode"`
	QuoteCode         string `json:"quoteCode"`
	EncodedRate       string `json:"encodedRate"`
	EncodedReciprocal string `json:"encodedReciprocal"`
	JulianDate        int    `json:"julianDate"`
	AuditFields
}

// Key returns the idempotency key of the pair.
func (p ExchangeRateRecordPair) Key() RecordKey {
	return RecordKey{BaseCode: p.BaseCode, QuoteCode: p.QuoteCode, JulianDate: p.JulianDate}
}

// Direct is the base -> quote row.
func (p ExchangeRateRecordPair) Direct() ExchangeRateRecord {
	return ExchangeRateRecord{
		CurrencyCode:    p.BaseCode,
		CounterCurrency: p.QuoteCode,
		Rate:            p.EncodedRate,
		ReverseRate:     p.EncodedReciprocal,
		EffectiveDate:   p.JulianDate,
		UpdatedDate:     p.JulianDate,
		AuditFields:     p.AuditFields,
	}
}

// Mirror is the quote -> base row.
func (p ExchangeRateRecordPair) Mirror() ExchangeRateRecord {
	return ExchangeRateRecord{
		CurrencyCode:    p.QuoteCode,
		CounterCurrency: p.BaseCode,
		Rate:            p.EncodedReciprocal,
		ReverseRate:     p.EncodedRate,
		EffectiveDate:   p.JulianDate,
		UpdatedDate:     p.JulianDate,
		AuditFields:     p.AuditFields,
	}
}

// Rows returns the direct and mirror rows in insert order.
func (p ExchangeRateRecordPair) Rows() []ExchangeRateRecord {
	return []ExchangeRateRecord{p.Direct(), p.Mirror()}
}
