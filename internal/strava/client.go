package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"runcoach/internal/activity"
)

const BaseURL = "https://www.strava.com/api/v3"

// MaxPerPage is the largest page Strava serves
const MaxPerPage = 200

// APIError is a non-200 response from Strava
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Client is a Strava API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRateLimiter replaces the default rate limiter
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates a Strava API client that authenticates with tokenSource
func NewClient(tokenSource oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:     BaseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetActivities fetches one page of the athlete's activities, optionally
// restricted to those started after 'after'
func (c *Client) GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]Activity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(min(perPage, MaxPerPage)))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	return activities, nil
}

// FetchActivities implements activity.Fetcher
func (c *Client) FetchActivities(ctx context.Context, page, perPage int) ([]activity.Activity, error) {
	acts, err := c.GetActivities(ctx, time.Time{}, page, perPage)
	if err != nil {
		return nil, err
	}
	return ToActivities(acts), nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("strava request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}
