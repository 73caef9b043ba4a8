package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateObservation is one base/quote/rate tuple taken from a feed response.
// It is created per fetch cycle and consumed once.
type RateObservation struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	ObservedDate  *time.Time      `json:"observedDate,omitempty"` // the feed's own date, nil if unparsable
	FetchedAt     time.Time       `json:"fetchedAt"`              // UTC; drives the persisted Julian date
	SourceURL     string          `json:"sourceURL"`
}
