package pipeline

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Transform converts a validated payload into normalized rows: numeric
// coercion, the derived daily change percentage, the symbol stamped on every
// row, sorted by date ascending regardless of map iteration order. A day with
// a zero open price keeps its row but leaves the percentage null, since the
// ratio is undefined.
func Transform(symbol string, vp *ValidatedPayload) ([]models.NormalizedRow, error) {
	rows := make([]models.NormalizedRow, 0, len(vp.Series))

	for dateStr, quote := range vp.Series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, &TransformError{Symbol: symbol, Date: dateStr, Field: "date", Err: err}
		}

		open, err := coerceDecimal(symbol, dateStr, "open", quote.Open)
		if err != nil {
			return nil, err
		}
		high, err := coerceDecimal(symbol, dateStr, "high", quote.High)
		if err != nil {
			return nil, err
		}
		low, err := coerceDecimal(symbol, dateStr, "low", quote.Low)
		if err != nil {
			return nil, err
		}
		closePrice, err := coerceDecimal(symbol, dateStr, "close", quote.Close)
		if err != nil {
			return nil, err
		}
		volume, err := strconv.ParseInt(quote.Volume, 10, 64)
		if err != nil {
			return nil, &TransformError{Symbol: symbol, Date: dateStr, Field: "volume", Err: err}
		}

		rows = append(rows, models.NormalizedRow{
			Symbol:         symbol,
			Date:           date,
			Open:           open,
			High:           high,
			Low:            low,
			Close:          closePrice,
			Volume:         volume,
			DailyChangePct: dailyChangePct(open, closePrice),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

// dailyChangePct computes (close-open)/open*100, or null when open is zero
func dailyChangePct(open, closePrice decimal.Decimal) decimal.NullDecimal {
	if open.IsZero() {
		return decimal.NullDecimal{}
	}
	pct := closePrice.Sub(open).Div(open).Mul(hundred)
	return decimal.NullDecimal{Decimal: pct, Valid: true}
}

func coerceDecimal(symbol, date, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, &TransformError{Symbol: symbol, Date: date, Field: field, Err: err}
	}
	return d, nil
}
