package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recordColumns is the insert column order of the ERP exchange-rate table.
var recordColumns = []string{
	"pxcrcd", "pxeft", "pxcrr", "pxan8", "pxcdec", "pxcrdc",
	"pxcrrd", "pxuser", "pxupmj", "pxpid", "pxjobn", "pxtday",
}

// PgxExchangeRateRecordRepository implements repositories.ExchangeRateRecordRepositoryFacade using pgxpool.
type PgxExchangeRateRecordRepository struct {
	BaseRepository
	table         string
	procStatement string
}

// newPgxExchangeRateRecordRepository creates a repository over <library>.<table>.
// procStatement is executed verbatim by TriggerDownstream; empty disables the call.
func newPgxExchangeRateRecordRepository(db *pgxpool.Pool, library, table, procStatement string) *PgxExchangeRateRecordRepository {
	return &PgxExchangeRateRecordRepository{
		BaseRepository: BaseRepository{Pool: db},
		table:          pgx.Identifier{strings.ToLower(library), strings.ToLower(table)}.Sanitize(),
		procStatement:  strings.TrimSpace(procStatement),
	}
}

// RecordExists checks for the mirror row of key on a freshly acquired connection.
func (r *PgxExchangeRateRecordRepository) RecordExists(ctx context.Context, key domain.RecordKey) (bool, error) {
	var exists bool
	err := r.withConn(ctx, func(conn *pgxpool.Conn) error {
		var err error
		exists, err = r.RecordExistsOn(ctx, conn, key)
		return err
	})
	return exists, err
}

// RecordExistsOn is RecordExists on a caller-supplied connection.
func (r *PgxExchangeRateRecordRepository) RecordExistsOn(ctx context.Context, q Querier, key domain.RecordKey) (bool, error) {
	query := fmt.Sprintf(`
		SELECT 1 FROM %s
		WHERE pxcrcd = $1 AND pxcrdc = $2 AND pxupmj = $3
		LIMIT 1;
	`, r.table)

	var one int
	err := q.QueryRow(ctx, query, key.QuoteCode, key.BaseCode, key.JulianDate).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewPersistenceError(
			fmt.Sprintf("failed to check record %s/%s/%d", key.BaseCode, key.QuoteCode, key.JulianDate), err)
	}
	return true, nil
}

// SaveRecordPair writes the direct and mirror rows in one multi-row INSERT.
func (r *PgxExchangeRateRecordRepository) SaveRecordPair(ctx context.Context, pair domain.ExchangeRateRecordPair) error {
	rows := pair.Rows()
	args := make([]any, 0, len(rows)*len(recordColumns))
	tuples := make([]string, 0, len(rows))

	for _, row := range rows {
		placeholders := make([]string, len(recordColumns))
		for i := range recordColumns {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+i+1)
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, recordArgs(row)...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s;",
		r.table, strings.Join(recordColumns, ", "), strings.Join(tuples, ", "))

	return r.withConn(ctx, func(conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, query, args...); err != nil {
			return apperrors.NewPersistenceError(
				fmt.Sprintf("failed to insert record pair %s/%s", pair.BaseCode, pair.QuoteCode), err)
		}
		return nil
	})
}

// TriggerDownstream runs the configured procedure statement.
func (r *PgxExchangeRateRecordRepository) TriggerDownstream(ctx context.Context) error {
	if r.procStatement == "" {
		return nil
	}
	return r.withConn(ctx, func(conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, r.procStatement); err != nil {
			return apperrors.NewPersistenceError("failed to run downstream procedure", err)
		}
		return nil
	})
}

// recordArgs returns the bound values of row in recordColumns order.
// Encoded rates are bound as text so the server parses the exact legacy strings.
func recordArgs(row domain.ExchangeRateRecord) []any {
	return []any{
		row.CurrencyCode,
		row.EffectiveDate,
		row.ReverseRate,
		row.AddressNumber,
		row.CurrencyDecimals,
		row.CounterCurrency,
		row.Rate,
		row.User,
		row.UpdatedDate,
		row.ProgramID,
		row.JobName,
		row.TimeOfDay,
	}
}
