package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/coach"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava"`
	Athlete AthleteConfig `json:"athlete"`
	Coach   CoachConfig   `json:"coach"`
	Log     LogConfig     `json:"log"`
	Server  ServerConfig  `json:"server"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds the heart rate bounds used for TRIMP when no suffer score exists
type AthleteConfig struct {
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
}

// CoachConfig shapes the generated week and the fetch window
type CoachConfig struct {
	LongRunDay      string   `json:"long_run_day"`
	TempoDays       []string `json:"tempo_days"`
	RestDays        []string `json:"rest_days"`
	RestProbability float64  `json:"rest_probability"`
	BaseWeeklyMiles float64  `json:"base_weekly_miles"`
	LookbackDays    int      `json:"lookback_days"`
	PageSize        int      `json:"page_size"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ServerConfig holds the JSON API listener settings
type ServerConfig struct {
	Address string `json:"address"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

const dirName = ".runcoach"

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	opts := coach.DefaultOptions()
	zones := analysis.DefaultZones()
	return Config{
		Athlete: AthleteConfig{
			RestingHR: zones.RestingHR,
			MaxHR:     zones.MaxHR,
		},
		Coach: CoachConfig{
			LongRunDay:      opts.LongRunDay.String(),
			TempoDays:       weekdayNames(opts.TempoDays),
			RestDays:        weekdayNames(opts.RestDays),
			RestProbability: opts.RestProbability,
			LookbackDays:    90,
			PageSize:        100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Address: "127.0.0.1:9001",
		},
	}
}

// Load reads the configuration from ~/.runcoach/config.json
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path, applying defaults for missing values
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Coach.LongRunDay == "" {
		c.Coach.LongRunDay = defaults.Coach.LongRunDay
	}
	if c.Coach.TempoDays == nil {
		c.Coach.TempoDays = defaults.Coach.TempoDays
	}
	if c.Coach.RestDays == nil {
		c.Coach.RestDays = defaults.Coach.RestDays
	}
	if c.Coach.RestProbability == 0 {
		c.Coach.RestProbability = defaults.Coach.RestProbability
	}
	if c.Coach.LookbackDays == 0 {
		c.Coach.LookbackDays = defaults.Coach.LookbackDays
	}
	if c.Coach.PageSize == 0 {
		c.Coach.PageSize = defaults.Coach.PageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
}

// Save writes the configuration to ~/.runcoach/config.json
func Save(cfg *Config) error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes the configuration to path, creating its directory
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample writes an example config file at path unless one exists
func CreateExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	return SaveFile(path, &example)
}

// Validate checks the Strava credentials
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return c.ValidateCoach()
}

// ValidateCoach checks everything needed to analyze and plan without Strava
func (c *Config) ValidateCoach() error {
	if _, err := c.CoachOptions(); err != nil {
		return err
	}
	if c.Coach.RestProbability < 0 || c.Coach.RestProbability > 1 {
		return fmt.Errorf("coach.rest_probability must be between 0 and 1, got %v", c.Coach.RestProbability)
	}
	if c.Coach.BaseWeeklyMiles < 0 {
		return fmt.Errorf("coach.base_weekly_miles must not be negative, got %v", c.Coach.BaseWeeklyMiles)
	}
	if c.Athlete.RestingHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be \"console\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// CoachOptions converts the coach section into plan options
func (c *Config) CoachOptions() (coach.Options, error) {
	opts := coach.DefaultOptions()

	if c.Coach.LongRunDay != "" {
		day, err := coach.ParseWeekday(c.Coach.LongRunDay)
		if err != nil {
			return opts, fmt.Errorf("coach.long_run_day: %w", err)
		}
		opts.LongRunDay = day
	}
	if c.Coach.TempoDays != nil {
		days, err := parseWeekdays(c.Coach.TempoDays)
		if err != nil {
			return opts, fmt.Errorf("coach.tempo_days: %w", err)
		}
		opts.TempoDays = days
	}
	if c.Coach.RestDays != nil {
		days, err := parseWeekdays(c.Coach.RestDays)
		if err != nil {
			return opts, fmt.Errorf("coach.rest_days: %w", err)
		}
		opts.RestDays = days
	}
	if c.Coach.RestProbability > 0 {
		opts.RestProbability = c.Coach.RestProbability
	}
	opts.BaseWeeklyMiles = c.Coach.BaseWeeklyMiles
	return opts, nil
}

// HRZones returns the athlete's heart rate bounds
func (c *Config) HRZones() analysis.HRZones {
	zones := analysis.DefaultZones()
	if c.Athlete.RestingHR > 0 {
		zones.RestingHR = c.Athlete.RestingHR
	}
	if c.Athlete.MaxHR > 0 {
		zones.MaxHR = c.Athlete.MaxHR
	}
	return zones
}

// Lookback returns the analysis window
func (c *Config) Lookback() time.Duration {
	days := c.Coach.LookbackDays
	if days <= 0 {
		days = DefaultConfig().Coach.LookbackDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, err := coach.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func weekdayNames(days []time.Weekday) []string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return names
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
