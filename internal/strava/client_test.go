package strava

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"runcoach/internal/activity"
)

const activitiesJSON = `[
  {"id": 1, "name": "Morning Run", "type": "Run", "sport_type": "Run",
   "start_date": "2024-06-10T07:00:00Z", "distance": 8046.7, "moving_time": 2700,
   "total_elevation_gain": 30.5, "has_heartrate": true, "average_heartrate": 148.2,
   "max_heartrate": 171, "suffer_score": 42},
  {"id": 2, "name": "Commute", "type": "Ride", "start_date": "2024-06-10T17:00:00Z",
   "distance": 12000, "moving_time": 1800, "has_heartrate": false}
]`

func fastLimiter() *RateLimiter {
	r := NewRateLimiter()
	r.minInterval = 0
	return r
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	return NewClient(ts, WithBaseURL(srv.URL), WithRateLimiter(fastLimiter()))
}

func TestGetActivities(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1717200000", r.URL.Query().Get("after"))

		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", "10,200")
		w.Write([]byte(activitiesJSON))
	})

	acts, err := c.GetActivities(context.Background(), time.Unix(1717200000, 0), 2, 50)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "Morning Run", acts[0].Name)
	require.NotNil(t, acts[0].SufferScore)
	assert.Equal(t, 42.0, *acts[0].SufferScore)
	assert.Nil(t, acts[1].AverageHeartrate)

	short, daily := c.RateLimitStatus()
	assert.Equal(t, 90, short)
	assert.Equal(t, 800, daily)
}

func TestFetchActivitiesImplementsFetcher(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("after"))
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))
		w.Write([]byte(activitiesJSON))
	})

	var f activity.Fetcher = c
	acts, err := f.FetchActivities(context.Background(), 1, 500)
	require.NoError(t, err)
	require.Len(t, acts, 2)

	run := acts[0]
	assert.Equal(t, int64(1), run.ID)
	assert.Equal(t, activity.TypeRun, run.Type)
	assert.Equal(t, 2700, run.MovingTime)
	require.NotNil(t, run.AverageHeartrate)
	assert.Equal(t, 148.2, *run.AverageHeartrate)
	assert.Nil(t, acts[1].SufferScore)

	// the store keeps only the run
	assert.Equal(t, 1, activity.NewStore(acts).Len())
}

func TestFetchActivitiesEmptyPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	acts, err := c.FetchActivities(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.NotNil(t, acts)
	assert.Empty(t, acts)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	})

	_, err := c.FetchActivities(context.Background(), 1, 100)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Authorization Error")

	// wrapped by the load cycle
	_, err = activity.Load(context.Background(), c, activity.LoadOptions{})
	var fetchErr *activity.FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.ErrorAs(t, err, &apiErr)
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	_, err := c.GetActivities(context.Background(), time.Time{}, 1, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding activities")
}
