package rawstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeFetcher) FetchDaily(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

var day = time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

func TestFetchOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss fetches and persists pretty-printed payload", func(t *testing.T) {
		fetcher := &fakeFetcher{body: []byte(`{"Meta Data":{"2. Symbol":"AAPL"}}`)}
		store, err := New(t.TempDir(), fetcher, true)
		require.NoError(t, err)

		payload, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Equal(t, 1, fetcher.calls)

		saved, err := os.ReadFile(store.Path("AAPL", day))
		require.NoError(t, err)
		assert.Equal(t, payload, saved)
		assert.Contains(t, string(saved), "\n    ", "payload should be indented")
	})

	t.Run("file name follows the symbol_date pattern", func(t *testing.T) {
		store, err := New(t.TempDir(), &fakeFetcher{}, true)
		require.NoError(t, err)
		assert.Equal(t, "AAPL_2024-01-02.json", filepath.Base(store.Path("AAPL", day)))
	})

	t.Run("second call is served from cache with no network call", func(t *testing.T) {
		fetcher := &fakeFetcher{body: []byte(`{"Meta Data":{}}`)}
		store, err := New(t.TempDir(), fetcher, true)
		require.NoError(t, err)

		first, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		require.True(t, fetched)

		before, err := os.ReadFile(store.Path("AAPL", day))
		require.NoError(t, err)

		second, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, 1, fetcher.calls, "cache hit must not fetch")
		assert.Equal(t, first, second)

		after, err := os.ReadFile(store.Path("AAPL", day))
		require.NoError(t, err)
		assert.Equal(t, before, after, "cached file must be unchanged")
	})

	t.Run("existing file is returned verbatim without validation", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &fakeFetcher{body: []byte(`{"fresh": true}`)}
		store, err := New(dir, fetcher, true)
		require.NoError(t, err)

		stale := []byte("not even json")
		require.NoError(t, os.WriteFile(store.Path("AAPL", day), stale, 0644))

		payload, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, stale, payload)
		assert.Equal(t, 0, fetcher.calls)
	})

	t.Run("fetch disabled with no cache reports no data", func(t *testing.T) {
		fetcher := &fakeFetcher{body: []byte(`{}`)}
		store, err := New(t.TempDir(), fetcher, false)
		require.NoError(t, err)

		_, _, err = store.FetchOrLoad(ctx, "AAPL", day)
		require.ErrorIs(t, err, ErrNoData)
		assert.Equal(t, 0, fetcher.calls)
	})

	t.Run("fetch disabled still serves cache hits", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir, &fakeFetcher{}, false)
		require.NoError(t, err)

		cached := []byte(`{"Meta Data": {}}`)
		require.NoError(t, os.WriteFile(store.Path("AAPL", day), cached, 0644))

		payload, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, cached, payload)
	})

	t.Run("fetcher failure propagates", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("connection refused")}
		store, err := New(t.TempDir(), fetcher, true)
		require.NoError(t, err)

		_, _, err = store.FetchOrLoad(ctx, "AAPL", day)
		require.Error(t, err)
	})

	t.Run("non-JSON body is persisted verbatim", func(t *testing.T) {
		fetcher := &fakeFetcher{body: []byte("<html>rate limited</html>")}
		store, err := New(t.TempDir(), fetcher, true)
		require.NoError(t, err)

		payload, fetched, err := store.FetchOrLoad(ctx, "AAPL", day)
		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Equal(t, fetcher.body, payload)
	})

	t.Run("new creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "raw")
		_, err := New(dir, &fakeFetcher{}, true)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}
