package rawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ErrNoData is returned when fetching is disabled and no cached payload
// exists for the requested (symbol, day).
var ErrNoData = errors.New("no cached payload and fetching is disabled")

// Fetcher retrieves the raw API body for one symbol
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string) ([]byte, error)
}

// Store is a filesystem cache holding one raw API payload per (symbol, day),
// written once and never overwritten.
type Store struct {
	dir          string
	fetcher      Fetcher
	fetchEnabled bool
}

// New creates a Store rooted at dir, creating the directory if needed
func New(dir string, fetcher Fetcher, fetchEnabled bool) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create raw data directory %s: %w", dir, err)
	}
	return &Store{
		dir:          dir,
		fetcher:      fetcher,
		fetchEnabled: fetchEnabled,
	}, nil
}

// Path returns the cache file path for a (symbol, day) pair
func (s *Store) Path(symbol string, day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", symbol, day.Format("2006-01-02")))
}

// FetchOrLoad returns the raw payload for (symbol, day). A cached file is
// read back verbatim without a network call and without validation; on a
// cache miss the payload is fetched, persisted pretty-printed before anything
// inspects it, and returned. fetched reports whether a live API call was made,
// so the caller can apply its rate-limit pause only to real fetches.
func (s *Store) FetchOrLoad(ctx context.Context, symbol string, day time.Time) (payload []byte, fetched bool, err error) {
	path := s.Path(symbol, day)

	if data, err := os.ReadFile(path); err == nil {
		return data, false, nil
	} else if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("failed to read cached payload %s: %w", path, err)
	}

	if !s.fetchEnabled {
		return nil, false, fmt.Errorf("%s on %s: %w", symbol, day.Format("2006-01-02"), ErrNoData)
	}

	body, err := s.fetcher.FetchDaily(ctx, symbol)
	if err != nil {
		return nil, false, err
	}

	pretty, err := indent(body)
	if err != nil {
		// Not JSON at all; keep the body verbatim so the validator can
		// report it against the persisted evidence.
		pretty = body
	}

	if err := writeOnce(path, pretty); err != nil {
		return nil, false, err
	}
	log.Printf("[RawStore] Saved raw payload for %s to %s", symbol, path)
	return pretty, true, nil
}

func indent(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeOnce creates the file exclusively; a concurrent or repeated run that
// loses the race keeps the existing file untouched.
func writeOnce(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("failed to create raw payload file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write raw payload file %s: %w", path, err)
	}
	return nil
}
