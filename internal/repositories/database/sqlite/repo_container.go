package sqlite

import (
	"context"
	"database/sql"

	portsrepo "github.com/SscSPs/forex_import_job/internal/core/ports/repositories"
)

func NewRepositoryProvider(ctx context.Context, db *sql.DB, table string) (portsrepo.RepositoryProvider, error) {
	recordRepo, err := NewExchangeRateRecordRepository(ctx, db, table)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}

	return portsrepo.RepositoryProvider{
		ExchangeRateRecordRepo: recordRepo,
		Closer:                 db,
	}, nil
}

var _ portsrepo.ExchangeRateRecordRepositoryFacade = (*ExchangeRateRecordRepository)(nil)
