package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"

	// refreshMargin refreshes tokens this long before they expire
	refreshMargin = 60 * time.Second
)

// Scopes are comma-separated in a single entry, as Strava expects
var Scopes = []string{
	"read,activity:read_all",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint overrides the Strava endpoints when set
	Endpoint *oauth2.Endpoint
}

// NewOAuthConfig creates an oauth2.Config for Strava
func NewOAuthConfig(cfg Config) *oauth2.Config {
	endpoint := oauth2.Endpoint{AuthURL: AuthURL, TokenURL: TokenURL}
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
	}
}

// Result is the token and athlete from a completed authorization
type Result struct {
	Token     *oauth2.Token
	AthleteID int64
}

// ExtractAthleteID reads the athlete id Strava embeds in the token response
func ExtractAthleteID(token *oauth2.Token) int64 {
	if athlete, ok := token.Extra("athlete").(map[string]any); ok {
		if id, ok := athlete["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}

// TokenSource refreshes tokens on demand and hands each new token to onRefresh
// so it can be persisted before use
type TokenSource struct {
	config    *oauth2.Config
	onRefresh func(*oauth2.Token) error

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource creates a TokenSource seeded with token
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		config:    cfg,
		token:     token,
		onRefresh: onRefresh,
	}
}

// Token returns a valid token, refreshing it when it is about to expire
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !expiring(ts.token) {
		return ts.token, nil
	}

	// only the refresh token is passed so oauth2 cannot reuse the old access token
	stale := &oauth2.Token{RefreshToken: ts.token.RefreshToken}
	fresh, err := ts.config.TokenSource(context.Background(), stale).Token()
	if err != nil {
		return nil, err
	}

	if ts.onRefresh != nil {
		if err := ts.onRefresh(fresh); err != nil {
			return nil, err
		}
	}

	ts.token = fresh
	return fresh, nil
}

// IsExpired reports whether the current token is within the refresh margin
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return expiring(ts.token)
}

func expiring(t *oauth2.Token) bool {
	return time.Until(t.Expiry) <= refreshMargin
}
