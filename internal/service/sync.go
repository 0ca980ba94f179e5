package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"runcoach/internal/activity"
	"runcoach/internal/store"
)

// SyncPhase names a step of a sync
type SyncPhase string

const (
	PhaseFetching SyncPhase = "fetching"
	PhaseStoring  SyncPhase = "storing"
	PhaseDone     SyncPhase = "done"
)

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase   SyncPhase
	Fetched int
	Stored  int
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	RunsStored        int
	RunsWithHR        int
	SyncedAt          time.Time
}

// SyncService copies one page of activities into the local snapshot
type SyncService struct {
	fetcher  activity.Fetcher
	db       *store.DB
	pageSize int
	now      func() time.Time
}

// NewSyncService creates a sync service reading pageSize activities from fetcher
func NewSyncService(fetcher activity.Fetcher, db *store.DB, pageSize int) *SyncService {
	if pageSize <= 0 {
		pageSize = activity.DefaultPageSize
	}
	return &SyncService{
		fetcher:  fetcher,
		db:       db,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Sync fetches the most recent page, keeps the runs and replaces the snapshot.
// progress, when non-nil, receives updates and is closed on return.
func (s *SyncService) Sync(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(p SyncProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	result := &SyncResult{}
	report(SyncProgress{Phase: PhaseFetching})

	raw, err := s.fetcher.FetchActivities(ctx, 1, s.pageSize)
	if err != nil {
		return result, &activity.FetchError{Page: 1, Err: err}
	}
	if raw == nil {
		return result, &activity.FetchError{Page: 1, Err: activity.ErrNoData}
	}
	result.ActivitiesFetched = len(raw)

	runs := activity.NewStore(raw).Activities()
	for _, r := range runs {
		if r.HasHeartrate() {
			result.RunsWithHR++
		}
	}
	report(SyncProgress{Phase: PhaseStoring, Fetched: len(raw)})

	result.SyncedAt = s.now()
	if err := s.db.ReplaceSnapshot(ctx, runs, result.SyncedAt); err != nil {
		return result, fmt.Errorf("storing snapshot: %w", err)
	}
	result.RunsStored = len(runs)
	report(SyncProgress{Phase: PhaseDone, Fetched: len(raw), Stored: len(runs)})

	zerolog.Ctx(ctx).Info().
		Int("fetched", result.ActivitiesFetched).
		Int("runs", result.RunsStored).
		Int("with_hr", result.RunsWithHR).
		Msg("sync complete")

	return result, nil
}
