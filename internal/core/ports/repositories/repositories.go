package repositories

import "io"

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ExchangeRateRecordRepo ExchangeRateRecordRepositoryFacade
	// Closer releases the run-scoped connection pool behind the repositories.
	Closer io.Closer
}
