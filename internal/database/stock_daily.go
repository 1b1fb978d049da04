package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
)

// InsertDailyRecords loads normalized rows into stock_daily_data inside a
// single transaction. Rows whose (symbol, date) already exists are silently
// suppressed by the unique constraint — insert-ignore, not check-then-insert,
// so repeated runs cannot race or double-count. Returns the number of rows
// actually inserted. An empty input is a no-op issuing no statements.
func (db *DB) InsertDailyRecords(rows []models.NormalizedRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stock_daily_data (
			symbol, date, open_price, high_price, low_price, close_price,
			volume, daily_change_percentage, extraction_timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, date) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0
	for _, r := range rows {
		result, err := stmt.Exec(
			r.Symbol, r.Date, r.Open, r.High, r.Low, r.Close,
			r.Volume, r.DailyChangePct, now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert daily record for %s on %s: %w",
				r.Symbol, r.Date.Format("2006-01-02"), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count inserted rows: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// GetDailyBySymbol retrieves records for a symbol, newest first
func (db *DB) GetDailyBySymbol(symbol string, limit int) ([]*models.StockDailyRecord, error) {
	query := `
		SELECT id, symbol, date, open_price, high_price, low_price, close_price,
		       volume, daily_change_percentage, extraction_timestamp
		FROM stock_daily_data
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily records: %w", err)
	}
	defer rows.Close()

	var records []*models.StockDailyRecord
	for rows.Next() {
		record, err := scanDailyRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetLatestDaily retrieves the most recent record for a symbol
func (db *DB) GetLatestDaily(symbol string) (*models.StockDailyRecord, error) {
	query := `
		SELECT id, symbol, date, open_price, high_price, low_price, close_price,
		       volume, daily_change_percentage, extraction_timestamp
		FROM stock_daily_data
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1
	`
	record, err := scanDailyRecord(db.conn.QueryRow(query, symbol).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no daily data found for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest daily record: %w", err)
	}
	return record, nil
}

// CountDailyRecords returns the number of stored rows for a symbol
func (db *DB) CountDailyRecords(symbol string) (int, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM stock_daily_data WHERE symbol = $1`, symbol,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily records: %w", err)
	}
	return count, nil
}

func scanDailyRecord(scan func(...any) error) (*models.StockDailyRecord, error) {
	var r models.StockDailyRecord

	err := scan(
		&r.ID, &r.Symbol, &r.Date, &r.Open, &r.High, &r.Low, &r.Close,
		&r.Volume, &r.DailyChangePct, &r.ExtractionTimestamp,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily record: %w", err)
	}
	return &r, nil
}
