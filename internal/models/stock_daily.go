package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPayload is the Alpha Vantage TIME_SERIES_DAILY response for one symbol.
// Quote fields keep their positional source labels ("1. open", ...) and their
// string typing; renaming and coercion happen downstream.
type RawPayload struct {
	MetaData   map[string]string            `json:"Meta Data"`
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`

	// Error/rate-limit bodies come back with one of these instead of a series.
	ErrorMessage string `json:"Error Message,omitempty"`
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
}

// NormalizedRow is one (symbol, date) observation ready for persistence.
// DailyChangePct is null when the open price is zero and the ratio is undefined.
type NormalizedRow struct {
	Symbol         string              `json:"symbol"`
	Date           time.Time           `json:"date"`
	Open           decimal.Decimal     `json:"open"`
	High           decimal.Decimal     `json:"high"`
	Low            decimal.Decimal     `json:"low"`
	Close          decimal.Decimal     `json:"close"`
	Volume         int64               `json:"volume"`
	DailyChangePct decimal.NullDecimal `json:"daily_change_percentage"`
}

// StockDailyRecord is a NormalizedRow as stored in stock_daily_data
type StockDailyRecord struct {
	ID                  int                 `json:"id"`
	Symbol              string              `json:"symbol"`
	Date                time.Time           `json:"date"`
	Open                decimal.Decimal     `json:"open_price"`
	High                decimal.Decimal     `json:"high_price"`
	Low                 decimal.Decimal     `json:"low_price"`
	Close               decimal.Decimal     `json:"close_price"`
	Volume              int64               `json:"volume"`
	DailyChangePct      decimal.NullDecimal `json:"daily_change_percentage"`
	ExtractionTimestamp time.Time           `json:"extraction_timestamp"`
}
