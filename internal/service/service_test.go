package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runcoach/internal/activity"
	"runcoach/internal/coach"
	"runcoach/internal/config"
	"runcoach/internal/store"
)

const fixturePath = "../activity/testdata/activities.json"

// Wednesday after the last fixture run
var fixtureNow = time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC)

func pinned() time.Time { return fixtureNow }

func setupDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	s := NewSyncService(activity.FileFetcher{Path: fixturePath}, db, 50)
	s.now = pinned

	progress := make(chan SyncProgress, 8)
	res, err := s.Sync(ctx, progress)
	require.NoError(t, err)

	a := assert.New(t)
	a.Equal(4, res.ActivitiesFetched)
	a.Equal(3, res.RunsStored)
	a.Equal(2, res.RunsWithHR)
	a.True(res.SyncedAt.Equal(fixtureNow))

	var phases []SyncPhase
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	a.Equal([]SyncPhase{PhaseFetching, PhaseStoring, PhaseDone}, phases)

	n, err := db.CountActivities(ctx)
	require.NoError(t, err)
	a.Equal(3, n)

	last, err := db.LastSync(ctx)
	require.NoError(t, err)
	a.True(last.Equal(fixtureNow))
}

func TestSyncFetchFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	ok := NewSyncService(activity.FileFetcher{Path: fixturePath}, db, 0)
	_, err := ok.Sync(ctx, nil)
	require.NoError(t, err)

	boom := errors.New("strava down")
	failing := NewSyncService(activity.FetcherFunc(func(context.Context, int, int) ([]activity.Activity, error) {
		return nil, boom
	}), db, 0)
	_, err = failing.Sync(ctx, nil)

	var fetchErr *activity.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, boom)

	n, err := db.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	nilPage := NewSyncService(activity.FetcherFunc(func(context.Context, int, int) ([]activity.Activity, error) {
		return nil, nil
	}), db, 0)
	_, err = nilPage.Sync(ctx, nil)
	assert.ErrorIs(t, err, activity.ErrNoData)
}

func TestNewFetcher(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	cfg := config.DefaultConfig()

	f, src, err := NewFetcher(ctx, &cfg, db, FetcherOptions{Fixture: fixturePath, Offline: true})
	require.NoError(t, err)
	assert.Equal(t, SourceFixture, src)
	assert.IsType(t, activity.FileFetcher{}, f)

	f, src, err = NewFetcher(ctx, &cfg, db, FetcherOptions{Offline: true})
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, src)
	assert.IsType(t, store.SnapshotFetcher{}, f)

	// strava needs credentials
	_, _, err = NewFetcher(ctx, &cfg, db, FetcherOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")

	// and a stored token
	cfg.Strava = config.StravaConfig{ClientID: "1", ClientSecret: "s"}
	_, _, err = NewFetcher(ctx, &cfg, db, FetcherOptions{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, db.SaveAuth(ctx, &store.Auth{AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour)}))
	_, src, err = NewFetcher(ctx, &cfg, db, FetcherOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceStrava, src)
}

func newFixtureSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), SessionConfig{
		Fetcher: activity.FileFetcher{Path: fixturePath},
		Source:  SourceFixture,
		Coach:   coach.DefaultOptions(),
		Random:  coach.NewRandom(1),
		Now:     pinned,
	})
	require.NoError(t, err)
	return s
}

func TestSession(t *testing.T) {
	s := newFixtureSession(t)

	a := assert.New(t)
	a.Equal(3, s.Runs())
	a.Equal(SourceFixture, s.Source())
	a.True(s.LoadedAt().Equal(fixtureNow))
	a.Equal(3, s.Analyzer().Count())
	a.True(s.Analyzer().Now().Equal(fixtureNow))

	res := s.Plan(context.Background())
	require.True(t, res.Success, res.ErrorMessage)
	a.Len(res.Plan.Days, 7)
}

func TestSessionPlanWithSeedIsRepeatable(t *testing.T) {
	s := newFixtureSession(t)
	first := s.PlanWithSeed(context.Background(), 99)
	second := s.PlanWithSeed(context.Background(), 99)
	require.True(t, first.Success)
	assert.Equal(t, first.Plan, second.Plan)
}

func TestSessionLookback(t *testing.T) {
	s, err := NewSession(context.Background(), SessionConfig{
		Fetcher: activity.FileFetcher{Path: fixturePath},
		Load:    activity.LoadOptions{Lookback: 48 * time.Hour},
		Now:     pinned,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Runs())
}

func TestSessionReloadFailureKeepsSnapshot(t *testing.T) {
	calls := 0
	fetcher := activity.FetcherFunc(func(ctx context.Context, page, perPage int) ([]activity.Activity, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("offline")
		}
		return activity.FileFetcher{Path: fixturePath}.FetchActivities(ctx, page, perPage)
	})

	s, err := NewSession(context.Background(), SessionConfig{Fetcher: fetcher, Now: pinned})
	require.NoError(t, err)

	before := s.Analyzer()
	err = s.Reload(context.Background())
	var fetchErr *activity.FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Same(t, before, s.Analyzer())
	assert.Equal(t, 3, s.Runs())
}

func TestNewSessionFetchFailure(t *testing.T) {
	s, err := NewSession(context.Background(), SessionConfig{
		Fetcher: activity.FileFetcher{Path: "testdata/missing.json"},
	})
	assert.Nil(t, s)
	var fetchErr *activity.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
