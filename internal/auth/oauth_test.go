package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: RedirectURL})

	assert.Equal(t, AuthURL, cfg.Endpoint.AuthURL)
	assert.Equal(t, TokenURL, cfg.Endpoint.TokenURL)
	assert.Equal(t, "http://localhost:8089/callback", cfg.RedirectURL)

	u := cfg.AuthCodeURL("xyz")
	assert.Contains(t, u, "client_id=id")
	assert.Contains(t, u, "state=xyz")
	assert.Contains(t, u, "scope=read%2Cactivity%3Aread_all")
}

func TestExtractAthleteID(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{
		"athlete": map[string]any{"id": float64(4242)},
	})
	assert.Equal(t, int64(4242), ExtractAthleteID(tok))
	assert.Zero(t, ExtractAthleteID(&oauth2.Token{AccessToken: "a"}))
}

func tokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","token_type":"Bearer","expires_in":21600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenSourceReusesValidToken(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	cfg := NewOAuthConfig(Config{Endpoint: &oauth2.Endpoint{TokenURL: srv.URL}})

	tok := &oauth2.Token{AccessToken: "current", RefreshToken: "old-refresh", Expiry: time.Now().Add(time.Hour)}
	ts := NewTokenSource(cfg, tok, func(*oauth2.Token) error {
		t.Fatal("unexpected refresh")
		return nil
	})

	got, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "current", got.AccessToken)
	assert.False(t, ts.IsExpired())
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestTokenSourceRefreshesNearExpiry(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	cfg := NewOAuthConfig(Config{ClientID: "id", ClientSecret: "secret", Endpoint: &oauth2.Endpoint{TokenURL: srv.URL}})

	// inside the refresh margin but still valid by oauth2's own reckoning
	tok := &oauth2.Token{AccessToken: "old-access", RefreshToken: "old-refresh", Expiry: time.Now().Add(30 * time.Second)}

	var persisted *oauth2.Token
	ts := NewTokenSource(cfg, tok, func(fresh *oauth2.Token) error {
		persisted = fresh
		return nil
	})
	assert.True(t, ts.IsExpired())

	got, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "new-access", got.AccessToken)
	assert.Equal(t, "new-refresh", got.RefreshToken)
	require.NotNil(t, persisted)
	assert.Equal(t, "new-access", persisted.AccessToken)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// the refreshed token is reused
	_, err = ts.Token()
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestTokenSourcePersistFailure(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	cfg := NewOAuthConfig(Config{Endpoint: &oauth2.Endpoint{TokenURL: srv.URL}})

	tok := &oauth2.Token{AccessToken: "old-access", RefreshToken: "old-refresh", Expiry: time.Now().Add(-time.Minute)}
	boom := errors.New("disk full")
	ts := NewTokenSource(cfg, tok, func(*oauth2.Token) error { return boom })

	_, err := ts.Token()
	assert.ErrorIs(t, err, boom)
	assert.True(t, ts.IsExpired())
}
