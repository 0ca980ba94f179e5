package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPageSize is the page size requested when LoadOptions leaves it unset
const DefaultPageSize = 100

// ErrNoData is wrapped by FetchError when the collaborator returned nothing at all
var ErrNoData = errors.New("no activities returned")

// Fetcher retrieves one page of activities from an external source
type Fetcher interface {
	FetchActivities(ctx context.Context, page, perPage int) ([]Activity, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, page, perPage int) ([]Activity, error)

// FetchActivities calls f
func (f FetcherFunc) FetchActivities(ctx context.Context, page, perPage int) ([]Activity, error) {
	return f(ctx, page, perPage)
}

// FetchError reports that activity retrieval failed. It aborts the load cycle.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching activities page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// LoadOptions controls a single load cycle
type LoadOptions struct {
	Page     int
	PageSize int
	// Lookback drops runs older than Now()-Lookback. Zero keeps everything.
	Lookback time.Duration
	Now      func() time.Time
}

// Load fetches one page of activities and builds the session Store.
// The load is all-or-nothing: any fetch failure returns a *FetchError and no Store.
func Load(ctx context.Context, f Fetcher, opts LoadOptions) (*Store, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	raw, err := f.FetchActivities(ctx, opts.Page, opts.PageSize)
	if err != nil {
		return nil, &FetchError{Page: opts.Page, Err: err}
	}
	if raw == nil {
		return nil, &FetchError{Page: opts.Page, Err: ErrNoData}
	}

	store := NewStore(raw)
	if opts.Lookback > 0 {
		store = store.Since(opts.Now().Add(-opts.Lookback))
	}

	zerolog.Ctx(ctx).Debug().
		Int("fetched", len(raw)).
		Int("runs", store.Len()).
		Dur("lookback", opts.Lookback).
		Msg("loaded activities")

	return store, nil
}

// FileFetcher serves activities from a JSON file in the Strava activity list format.
// It is the canned-fixture collaborator used for offline and test runs.
type FileFetcher struct {
	Path string
}

// FetchActivities reads the file and returns the requested page of it
func (f FileFetcher) FetchActivities(ctx context.Context, page, perPage int) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var all []Activity
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", f.Path, err)
	}

	return paginate(all, page, perPage), nil
}

func paginate(all []Activity, page, perPage int) []Activity {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return []Activity{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
