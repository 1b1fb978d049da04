package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/rawstore"
)

// RawSource resolves the raw payload for a (symbol, day), reporting whether a
// live API call was made
type RawSource interface {
	FetchOrLoad(ctx context.Context, symbol string, day time.Time) (payload []byte, fetched bool, err error)
}

// Loader inserts normalized rows, suppressing (symbol, date) duplicates, and
// reports how many rows were actually inserted
type Loader interface {
	InsertDailyRecords(rows []models.NormalizedRow) (int, error)
}

const (
	stageFetch     = "fetch"
	stageValidate  = "validate"
	stageTransform = "transform"
)

// Pipeline sequences raw-store resolution, validation and transformation
// across the configured symbols, then loads the accumulated rows once.
type Pipeline struct {
	source         RawSource
	loader         Loader
	symbols        []string
	rateLimitPause time.Duration

	now func() time.Time
}

// New creates a Pipeline over the given source and loader
func New(source RawSource, loader Loader, symbols []string, rateLimitPause time.Duration) *Pipeline {
	return &Pipeline{
		source:         source,
		loader:         loader,
		symbols:        symbols,
		rateLimitPause: rateLimitPause,
		now:            time.Now,
	}
}

// Run executes one full ETL pass. Symbols are processed sequentially in list
// order; any symbol that fails fetch, validation or transformation is
// recorded in the summary and skipped, so a single bad payload never aborts
// the run. A storage failure during the load phase is fatal to the run and
// returned alongside the summary accumulated so far.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		StartedAt:    p.now(),
		SymbolsTotal: len(p.symbols),
	}
	day := summary.StartedAt.UTC()

	var accumulated []models.NormalizedRow
	for i, symbol := range p.symbols {
		rows, fetched, err := p.processSymbol(ctx, symbol, day)
		if err != nil {
			failure := classify(symbol, err)
			log.Printf("[Pipeline] Skipping %s: %s failure: %s", symbol, failure.Stage, failure.Reason)
			summary.Failures = append(summary.Failures, failure)
		} else {
			summary.SymbolsSucceeded++
			summary.RowsTransformed += len(rows)
			accumulated = append(accumulated, rows...)
		}

		// The upstream API caps the request rate, so pause after every live
		// fetch. Cache hits cost nothing and skip the pause.
		if fetched && i < len(p.symbols)-1 {
			if err := p.pause(ctx); err != nil {
				summary.FinishedAt = p.now()
				return summary, err
			}
		}
	}

	inserted, err := p.loader.InsertDailyRecords(accumulated)
	summary.RowsInserted = inserted
	summary.FinishedAt = p.now()
	if err != nil {
		return summary, fmt.Errorf("load phase failed: %w", err)
	}

	log.Printf("[Pipeline] Run completed: %d/%d symbols succeeded, %d rows transformed, %d inserted in %s",
		summary.SymbolsSucceeded, summary.SymbolsTotal, summary.RowsTransformed, summary.RowsInserted,
		summary.Duration().Round(time.Millisecond))
	return summary, nil
}

func (p *Pipeline) processSymbol(ctx context.Context, symbol string, day time.Time) ([]models.NormalizedRow, bool, error) {
	raw, fetched, err := p.source.FetchOrLoad(ctx, symbol, day)
	if err != nil {
		return nil, fetched, err
	}
	if !fetched {
		log.Printf("[Pipeline] Cache hit for %s on %s", symbol, day.Format("2006-01-02"))
	}

	validated, err := Validate(symbol, raw)
	if err != nil {
		return nil, fetched, err
	}

	rows, err := Transform(symbol, validated)
	if err != nil {
		return nil, fetched, err
	}
	return rows, fetched, nil
}

func (p *Pipeline) pause(ctx context.Context) error {
	if p.rateLimitPause <= 0 {
		return nil
	}
	timer := time.NewTimer(p.rateLimitPause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify maps a per-symbol error onto the stage that produced it
func classify(symbol string, err error) models.SymbolFailure {
	var valErr *ValidationError
	var transErr *TransformError

	stage := stageFetch
	switch {
	case errors.As(err, &valErr):
		stage = stageValidate
	case errors.As(err, &transErr):
		stage = stageTransform
	case errors.Is(err, rawstore.ErrNoData):
		stage = stageFetch
	}
	return models.SymbolFailure{Symbol: symbol, Stage: stage, Reason: err.Error()}
}
