package store

import (
	"context"
	"errors"

	"runcoach/internal/activity"
)

// ErrNoSnapshot is returned by SnapshotFetcher before the first sync
var ErrNoSnapshot = errors.New("no synced activities, run `runcoach sync` first")

// SnapshotFetcher serves the last synced activities, for offline sessions
type SnapshotFetcher struct {
	DB *DB
}

// FetchActivities implements activity.Fetcher over the stored snapshot
func (f SnapshotFetcher) FetchActivities(ctx context.Context, page, perPage int) ([]activity.Activity, error) {
	last, err := f.DB.LastSync(ctx)
	if err != nil {
		return nil, err
	}
	if last.IsZero() {
		return nil, ErrNoSnapshot
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = activity.DefaultPageSize
	}
	return f.DB.ListActivities(ctx, perPage, (page-1)*perPage)
}
