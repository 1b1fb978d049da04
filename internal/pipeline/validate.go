package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
)

// quoteFieldLabels maps Alpha Vantage's positional quote labels to semantic
// names, in source order. This table is the only place the "1. open" style
// labels appear.
var quoteFieldLabels = []struct {
	Label string
	Name  string
}{
	{"1. open", "open"},
	{"2. high", "high"},
	{"3. low", "low"},
	{"4. close", "close"},
	{"5. volume", "volume"},
}

// Quote is one day's record with semantic field names, still string-typed
type Quote struct {
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// ValidatedPayload is a RawPayload that passed the schema check, with quote
// fields renamed to semantic names
type ValidatedPayload struct {
	MetaData map[string]string
	Series   map[string]Quote
}

// Validate schema-checks a raw payload against the expected API contract.
// It runs on freshly fetched and cache-loaded payloads alike; a cached file's
// integrity is a trust boundary too. Failures are *ValidationError values,
// never panics.
func Validate(symbol string, raw []byte) (*ValidatedPayload, error) {
	var payload models.RawPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ValidationError{Symbol: symbol, Reason: "payload is not valid JSON: " + err.Error()}
	}

	// Alpha Vantage reports errors and rate limits as 200 responses with a
	// message body instead of a series.
	if payload.ErrorMessage != "" {
		return nil, &ValidationError{Symbol: symbol, Reason: "API error: " + payload.ErrorMessage}
	}
	if payload.Note != "" {
		return nil, &ValidationError{Symbol: symbol, Reason: "API note: " + payload.Note}
	}
	if payload.Information != "" {
		return nil, &ValidationError{Symbol: symbol, Reason: "API information: " + payload.Information}
	}
	if payload.MetaData == nil {
		return nil, &ValidationError{Symbol: symbol, Field: "Meta Data", Reason: "missing"}
	}
	if payload.TimeSeries == nil {
		return nil, &ValidationError{Symbol: symbol, Field: "Time Series (Daily)", Reason: "missing"}
	}

	series := make(map[string]Quote, len(payload.TimeSeries))
	for date, fields := range payload.TimeSeries {
		renamed := make(map[string]string, len(quoteFieldLabels))
		for _, fl := range quoteFieldLabels {
			value, ok := fields[fl.Label]
			if !ok {
				return nil, &ValidationError{Symbol: symbol, Field: fl.Label, Reason: "missing on " + date}
			}
			if err := checkCoercible(fl.Name, value); err != nil {
				return nil, &ValidationError{Symbol: symbol, Field: fl.Label, Reason: err.Error() + " on " + date}
			}
			renamed[fl.Name] = value
		}
		series[date] = Quote{
			Open:   renamed["open"],
			High:   renamed["high"],
			Low:    renamed["low"],
			Close:  renamed["close"],
			Volume: renamed["volume"],
		}
	}

	return &ValidatedPayload{
		MetaData: payload.MetaData,
		Series:   series,
	}, nil
}

func checkCoercible(name, value string) error {
	if name == "volume" {
		volume, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
		if volume < 0 {
			return fmt.Errorf("negative volume: %q", value)
		}
		return nil
	}
	if _, err := decimal.NewFromString(value); err != nil {
		return fmt.Errorf("not a decimal: %q", value)
	}
	return nil
}
