package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"runcoach/internal/activity"
	"runcoach/internal/auth"
	"runcoach/internal/config"
	"runcoach/internal/store"
	"runcoach/internal/strava"
)

// Source names where a session's activities come from
type Source string

const (
	SourceStrava   Source = "strava"
	SourceSnapshot Source = "snapshot"
	SourceFixture  Source = "fixture"
)

// ErrNotAuthenticated is returned when Strava is needed but no token is stored
var ErrNotAuthenticated = errors.New("not authenticated with Strava, run `runcoach auth` first")

// FetcherOptions selects the activity source
type FetcherOptions struct {
	// Fixture is a JSON file in the Strava activity list format
	Fixture string
	// Offline reads the last synced snapshot instead of calling Strava
	Offline bool
}

// NewFetcher picks the fixture, the local snapshot or Strava, in that order
func NewFetcher(ctx context.Context, cfg *config.Config, db *store.DB, opts FetcherOptions) (activity.Fetcher, Source, error) {
	switch {
	case opts.Fixture != "":
		return activity.FileFetcher{Path: opts.Fixture}, SourceFixture, nil
	case opts.Offline:
		if db == nil {
			return nil, "", errors.New("offline mode needs the local database")
		}
		return store.SnapshotFetcher{DB: db}, SourceSnapshot, nil
	}

	client, err := NewStravaClient(ctx, cfg, db)
	if err != nil {
		return nil, "", err
	}
	return client, SourceStrava, nil
}

// NewStravaClient builds an authenticated client from the stored token.
// Refreshed tokens are written back to db.
func NewStravaClient(ctx context.Context, cfg *config.Config, db *store.DB) (*strava.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := db.GetAuth(ctx)
	if errors.Is(err, store.ErrNoAuth) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	ts := auth.NewTokenSource(OAuthConfig(cfg), creds.Token(), func(t *oauth2.Token) error {
		return db.UpdateTokens(context.Background(), t)
	})
	return strava.NewClient(ts), nil
}

// OAuthConfig returns the Strava OAuth configuration for cfg's credentials
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  auth.RedirectURL,
	})
}
