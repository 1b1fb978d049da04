package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	t.Run("computes daily change percentage", func(t *testing.T) {
		vp := &ValidatedPayload{
			Series: map[string]Quote{
				"2024-01-02": {Open: "100.00", High: "101.00", Low: "99.00", Close: "102.00", Volume: "1000"},
			},
		}

		rows, err := Transform("AAPL", vp)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		row := rows[0]
		assert.Equal(t, "AAPL", row.Symbol)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), row.Date)
		assert.True(t, row.Open.Equal(decimal.NewFromFloat(100.00)))
		assert.True(t, row.Close.Equal(decimal.NewFromFloat(102.00)))
		assert.Equal(t, int64(1000), row.Volume)
		require.True(t, row.DailyChangePct.Valid)
		assert.True(t, row.DailyChangePct.Decimal.Equal(decimal.NewFromFloat(2.00)),
			"expected 2.00, got %s", row.DailyChangePct.Decimal)
	})

	t.Run("rows sorted by date ascending regardless of map order", func(t *testing.T) {
		vp := &ValidatedPayload{
			Series: map[string]Quote{
				"2024-01-05": {Open: "1", High: "1", Low: "1", Close: "1", Volume: "1"},
				"2024-01-02": {Open: "1", High: "1", Low: "1", Close: "1", Volume: "1"},
				"2024-01-04": {Open: "1", High: "1", Low: "1", Close: "1", Volume: "1"},
				"2024-01-03": {Open: "1", High: "1", Low: "1", Close: "1", Volume: "1"},
			},
		}

		rows, err := Transform("MSFT", vp)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		for i := 1; i < len(rows); i++ {
			assert.True(t, rows[i-1].Date.Before(rows[i].Date),
				"row %d (%s) should precede row %d (%s)", i-1, rows[i-1].Date, i, rows[i].Date)
		}
		for _, row := range rows {
			assert.Equal(t, "MSFT", row.Symbol)
		}
	})

	t.Run("zero open price yields null change percentage", func(t *testing.T) {
		vp := &ValidatedPayload{
			Series: map[string]Quote{
				"2024-01-02": {Open: "0", High: "1.00", Low: "0", Close: "0.50", Volume: "10"},
			},
		}

		rows, err := Transform("PENNY", vp)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].DailyChangePct.Valid)
	})

	t.Run("negative change computed for down days", func(t *testing.T) {
		vp := &ValidatedPayload{
			Series: map[string]Quote{
				"2024-01-02": {Open: "200.00", High: "201.00", Low: "189.00", Close: "190.00", Volume: "500"},
			},
		}

		rows, err := Transform("AAPL", vp)
		require.NoError(t, err)
		require.True(t, rows[0].DailyChangePct.Valid)
		assert.True(t, rows[0].DailyChangePct.Decimal.Equal(decimal.NewFromFloat(-5.00)),
			"expected -5.00, got %s", rows[0].DailyChangePct.Decimal)
	})

	t.Run("unparseable date is a transform error", func(t *testing.T) {
		vp := &ValidatedPayload{
			Series: map[string]Quote{
				"01/02/2024": {Open: "1", High: "1", Low: "1", Close: "1", Volume: "1"},
			},
		}

		_, err := Transform("AAPL", vp)
		var transErr *TransformError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, "date", transErr.Field)
	})

	t.Run("empty series yields no rows", func(t *testing.T) {
		rows, err := Transform("AAPL", &ValidatedPayload{Series: map[string]Quote{}})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
