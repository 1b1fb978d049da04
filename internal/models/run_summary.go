package models

import "time"

// SymbolFailure records why one symbol was skipped during a run
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Stage  string `json:"stage"` // "fetch", "validate" or "transform"
	Reason string `json:"reason"`
}

// RunSummary is the per-run accounting reported after each pipeline run
type RunSummary struct {
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
	SymbolsTotal     int             `json:"symbols_total"`
	SymbolsSucceeded int             `json:"symbols_succeeded"`
	Failures         []SymbolFailure `json:"failures,omitempty"`
	RowsTransformed  int             `json:"rows_transformed"`
	RowsInserted     int             `json:"rows_inserted"`
}

// Duration returns the wall-clock time of the run
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
