package repositories

import (
	"context"

	"github.com/SscSPs/forex_import_job/internal/core/domain"
)

// ExchangeRateRecordReader defines read operations on the ERP exchange-rate table
type ExchangeRateRecordReader interface {
	// RecordExists reports whether a row keyed by (quote, base, Julian date) is already stored.
	RecordExists(ctx context.Context, key domain.RecordKey) (bool, error)
}

// ExchangeRateRecordWriter defines write operations on the ERP exchange-rate table
type ExchangeRateRecordWriter interface {
	// SaveRecordPair inserts the direct and mirror rows with a single statement.
	// There is no surrounding transaction; a failure may leave one of the two rows behind.
	SaveRecordPair(ctx context.Context, pair domain.ExchangeRateRecordPair) error
}

// DownstreamProcessor runs the ERP-side processing of the imported rates.
type DownstreamProcessor interface {
	// TriggerDownstream executes the configured procedure statement once.
	TriggerDownstream(ctx context.Context) error
}

// ExchangeRateRecordRepositoryFacade combines all exchange-rate table operations
// This is a facade for clients that need access to all operations
type ExchangeRateRecordRepositoryFacade interface {
	ExchangeRateRecordReader
	ExchangeRateRecordWriter
	DownstreamProcessor
}
