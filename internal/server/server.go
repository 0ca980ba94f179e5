// Package server exposes the analysis and the weekly plan as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"runcoach/internal/analysis"
	"runcoach/internal/coach"
)

// Planner is the part of a session the API needs
type Planner interface {
	Analyzer() *analysis.Analyzer
	Plan(ctx context.Context) coach.Result
	PlanWithSeed(ctx context.Context, seed uint64) coach.Result
}

// Bounds on query parameters
const (
	MaxDays  = 3650
	MaxWeeks = 104
)

// Server serves the JSON API over a session
type Server struct {
	echo    *echo.Echo
	session Planner
	log     zerolog.Logger
}

// New builds the API and its routes
func New(session Planner, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, session: session, log: log}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(s.logRequests)
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = s.handleError

	e.GET("/healthz", s.health)
	api := e.Group("/api")
	api.GET("/stats", s.stats)
	api.GET("/weeks", s.weeks)
	api.GET("/distributions", s.distributions)
	api.GET("/streaks", s.streaks)
	api.GET("/consistency", s.consistency)
	api.GET("/trends", s.trends)
	api.GET("/progression", s.progression)
	api.GET("/recommendations", s.recommendations)
	api.GET("/plan", s.plan)

	return s
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on address until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, address string) error {
	errs := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", address).Msg("serving")
		errs <- s.echo.Start(address)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return s.echo.Shutdown(shutdown)
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		logger := s.log.With().Str("request_id", id).Logger()

		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		logger.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", c.Response().Status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return nil
	}
}

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("handler failed")
	}

	if err := c.JSON(code, errorBody{Error: msg}); err != nil {
		s.log.Error().Err(err).Msg("writing error response")
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"runs":   s.session.Analyzer().Count(),
	})
}

func (s *Server) stats(c echo.Context) error {
	a := s.session.Analyzer()
	if c.QueryParam("days") == "" {
		return c.JSON(http.StatusOK, a.MultiTimeframeStats())
	}
	days, err := intParam(c, "days", 0, 1, MaxDays)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.StatsForPeriod(days))
}

func (s *Server) weeks(c echo.Context) error {
	count, err := intParam(c, "count", analysis.DefaultWeekCount, 1, MaxWeeks)
	if err != nil {
		return err
	}
	a := s.session.Analyzer()
	resp := struct {
		Weeks    []analysis.WeekSummary `json:"weeks"`
		ThisWeek analysis.WeekSummary   `json:"this_week"`
		Best     *analysis.WeekSummary  `json:"best,omitempty"`
		Worst    *analysis.WeekSummary  `json:"worst,omitempty"`
	}{
		Weeks:    a.WeeklyBreakdown(count),
		ThisWeek: a.ThisWeek(),
	}
	if best, worst, ok := a.BestWorstWeeks(count); ok {
		resp.Best, resp.Worst = &best, &worst
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) distributions(c echo.Context) error {
	a := s.session.Analyzer()
	return c.JSON(http.StatusOK, struct {
		Pace     *analysis.PaceDistribution    `json:"pace"`
		Effort   *analysis.EffortDistribution  `json:"effort"`
		Distance analysis.DistanceDistribution `json:"distance"`
	}{
		Pace:     a.PaceDistribution(),
		Effort:   a.EffortDistribution(),
		Distance: a.DistanceDistribution(),
	})
}

func (s *Server) streaks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.session.Analyzer().RunningStreaks())
}

func (s *Server) consistency(c echo.Context) error {
	return c.JSON(http.StatusOK, s.session.Analyzer().ConsistencyMetrics())
}

func (s *Server) trends(c echo.Context) error {
	a := s.session.Analyzer()
	resp := struct {
		Load            analysis.LoadComparison   `json:"load"`
		Monthly         []analysis.MonthSummary   `json:"monthly"`
		PersonalRecords []analysis.PersonalRecord `json:"personal_records"`
		Daily           analysis.DailyLoadSummary `json:"daily_load"`
		Fitness         *analysis.Fitness         `json:"fitness,omitempty"`
		Predictions     *analysis.Predictions     `json:"predictions,omitempty"`
	}{
		Load:            a.TrainingLoad(),
		Monthly:         a.MonthlyTrends(),
		PersonalRecords: a.PersonalRecords(),
		Daily:           a.DailyLoad(),
	}
	if f, ok := a.CurrentFitness(); ok {
		resp.Fitness = &f
	}
	if p, ok := a.RacePredictions(); ok {
		resp.Predictions = &p
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) progression(c echo.Context) error {
	a := s.session.Analyzer()
	return c.JSON(http.StatusOK, struct {
		LoadTrend        analysis.Trend            `json:"load_trend"`
		VolumeTrend      analysis.Trend            `json:"volume_trend"`
		LoadDistribution analysis.LoadDistribution `json:"load_distribution"`
	}{
		LoadTrend:        a.LoadTrend(),
		VolumeTrend:      a.VolumeTrend(),
		LoadDistribution: a.LoadDistribution(),
	})
}

func (s *Server) recommendations(c echo.Context) error {
	mode, err := analysis.ParseMode(c.QueryParam("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := s.session.Analyzer()
	return c.JSON(http.StatusOK, struct {
		Mode              analysis.Mode             `json:"mode"`
		SuggestedLongRun  int                       `json:"suggested_long_run_miles"`
		DaysSinceTempoRun int                       `json:"days_since_tempo_run"`
		Recommendations   []analysis.Recommendation `json:"recommendations"`
	}{
		Mode:              mode,
		SuggestedLongRun:  a.SuggestLongRunMiles(),
		DaysSinceTempoRun: a.DaysSinceTempoRun(),
		Recommendations:   a.Recommendations(mode),
	})
}

func (s *Server) plan(c echo.Context) error {
	ctx := c.Request().Context()

	var res coach.Result
	if raw := c.QueryParam("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "seed must be a non-negative integer")
		}
		res = s.session.PlanWithSeed(ctx, seed)
	} else {
		res = s.session.Plan(ctx)
	}

	if !res.Success {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, res)
}

// intParam parses an optional integer query parameter within [lo, hi]
func intParam(c echo.Context, name string, def, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return v, nil
}
