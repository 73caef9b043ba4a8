package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ExchangeRateRecordRepository stores the ERP exchange-rate table in a local SQLite file.
// Rates are kept as TEXT so the encoded strings survive unchanged.
// The downstream procedure is recorded in a trigger log table instead of being executed.
type ExchangeRateRecordRepository struct {
	db         *sql.DB
	table      string
	triggerLog string
}

// NewExchangeRateRecordRepository creates the repository and its tables if needed.
func NewExchangeRateRecordRepository(ctx context.Context, db *sql.DB, table string) (*ExchangeRateRecordRepository, error) {
	table = strings.ToLower(strings.TrimSpace(table))
	if !identifierPattern.MatchString(table) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid table name %q", table))
	}

	repo := &ExchangeRateRecordRepository{
		db:         db,
		table:      table,
		triggerLog: table + "_trigger_log",
	}
	if err := repo.migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// RecordExists checks for the mirror row of key.
func (r *ExchangeRateRecordRepository) RecordExists(ctx context.Context, key domain.RecordKey) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE pxcrcd = ? AND pxcrdc = ? AND pxupmj = ? LIMIT 1`, r.table)

	var one int
	err := r.db.QueryRowContext(ctx, query, key.QuoteCode, key.BaseCode, key.JulianDate).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewPersistenceError(
			fmt.Sprintf("failed to check record %s/%s/%d", key.BaseCode, key.QuoteCode, key.JulianDate), err)
	}
	return true, nil
}

// SaveRecordPair writes the direct and mirror rows in one multi-row INSERT.
func (r *ExchangeRateRecordRepository) SaveRecordPair(ctx context.Context, pair domain.ExchangeRateRecordPair) error {
	const tuple = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	query := fmt.Sprintf(`
		INSERT INTO %s (
			pxcrcd, pxeft, pxcrr, pxan8, pxcdec, pxcrdc,
			pxcrrd, pxuser, pxupmj, pxpid, pxjobn, pxtday
		) VALUES %s, %s`, r.table, tuple, tuple)

	args := make([]any, 0, 24)
	for _, row := range pair.Rows() {
		args = append(args,
			row.CurrencyCode, row.EffectiveDate, row.ReverseRate, row.AddressNumber, row.CurrencyDecimals,
			row.CounterCurrency, row.Rate, row.User, row.UpdatedDate, row.ProgramID, row.JobName, row.TimeOfDay,
		)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewPersistenceError(
			fmt.Sprintf("failed to insert record pair %s/%s", pair.BaseCode, pair.QuoteCode), err)
	}
	return nil
}

// TriggerDownstream appends a row to the trigger log.
func (r *ExchangeRateRecordRepository) TriggerDownstream(ctx context.Context) error {
	query := fmt.Sprintf(`INSERT INTO %s (invoked_at) VALUES (strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now'))`, r.triggerLog)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return apperrors.NewPersistenceError("failed to record downstream trigger", err)
	}
	return nil
}

// ListRecords returns every stored row for a Julian date, ordered by currency pair.
func (r *ExchangeRateRecordRepository) ListRecords(ctx context.Context, julianDate int) ([]domain.ExchangeRateRecord, error) {
	query := fmt.Sprintf(`
		SELECT pxcrcd, pxcrdc, pxcrrd, pxcrr, pxeft, pxupmj, pxan8, pxcdec, pxuser, pxpid, pxjobn, pxtday
		FROM %s
		WHERE pxupmj = ?
		ORDER BY pxcrcd, pxcrdc`, r.table)

	rows, err := r.db.QueryContext(ctx, query, julianDate)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list records", err)
	}
	defer rows.Close()

	var records []domain.ExchangeRateRecord
	for rows.Next() {
		var rec domain.ExchangeRateRecord
		if err := rows.Scan(
			&rec.CurrencyCode, &rec.CounterCurrency, &rec.Rate, &rec.ReverseRate,
			&rec.EffectiveDate, &rec.UpdatedDate, &rec.AddressNumber, &rec.CurrencyDecimals,
			&rec.User, &rec.ProgramID, &rec.JobName, &rec.TimeOfDay,
		); err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate records", err)
	}
	return records, nil
}

// TriggerCount returns how many times the downstream trigger ran.
func (r *ExchangeRateRecordRepository) TriggerCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.triggerLog)).Scan(&count); err != nil {
		return 0, apperrors.NewPersistenceError("failed to count downstream triggers", err)
	}
	return count, nil
}

func (r *ExchangeRateRecordRepository) migrate(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			pxcrcd TEXT NOT NULL,
			pxeft INTEGER NOT NULL,
			pxcrr TEXT NOT NULL,
			pxan8 INTEGER NOT NULL DEFAULT 0,
			pxcdec INTEGER NOT NULL DEFAULT 0,
			pxcrdc TEXT NOT NULL,
			pxcrrd TEXT NOT NULL,
			pxuser TEXT NOT NULL,
			pxupmj INTEGER NOT NULL,
			pxpid TEXT NOT NULL,
			pxjobn TEXT NOT NULL,
			pxtday INTEGER NOT NULL
		);`, r.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_pair_date ON %s (pxcrcd, pxcrdc, pxupmj);`, r.table, r.table),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			invoked_at TEXT NOT NULL
		);`, r.triggerLog),
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewPersistenceError("sqlite migrate failed", err)
		}
	}
	return nil
}
