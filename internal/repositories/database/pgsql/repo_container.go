package pgsql

import (
	portsrepo "github.com/SscSPs/forex_import_job/internal/core/ports/repositories"
	"github.com/SscSPs/forex_import_job/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TableConfig names the ERP objects the repositories work against.
type TableConfig struct {
	Library       string
	Table         string
	ProcStatement string
}

func NewRepositoryProvider(dbPool *pgxpool.Pool, tables TableConfig) portsrepo.RepositoryProvider {
	recordRepo := newPgxExchangeRateRecordRepository(dbPool, tables.Library, tables.Table, tables.ProcStatement)

	return portsrepo.RepositoryProvider{
		ExchangeRateRecordRepo: recordRepo,
		Closer:                 database.PoolCloser{Pool: dbPool},
	}
}

var _ portsrepo.ExchangeRateRecordRepositoryFacade = (*PgxExchangeRateRecordRepository)(nil)
