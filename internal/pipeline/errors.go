package pipeline

import "fmt"

// ValidationError reports a payload that does not match the Alpha Vantage
// contract, naming the symbol and the offending field.
type ValidationError struct {
	Symbol string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: field %q: %s", e.Symbol, e.Field, e.Reason)
}

// TransformError reports a numeric coercion failure on an otherwise
// validated payload.
type TransformError struct {
	Symbol string
	Date   string
	Field  string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed for %s on %s: field %q: %v", e.Symbol, e.Date, e.Field, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
