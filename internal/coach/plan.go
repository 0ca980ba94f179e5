package coach

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

// WeekType selects the shape of the generated week
type WeekType string

const (
	WeekRecovery WeekType = "recovery"
	WeekBuild    WeekType = "build"
	WeekBase     WeekType = "base"
)

// SessionType is the kind of training on one day
type SessionType string

const (
	SessionLongRun SessionType = "Long Run"
	SessionTempo   SessionType = "Tempo/Workout"
	SessionEasy    SessionType = "Easy Run"
	SessionRest    SessionType = "Rest"
)

// Plan sizing
const (
	MinLongRunMiles = 6
	LongRunShare    = 0.35
	MinEasyRunMiles = 3
	EasyRunShare    = 0.15
	TempoMiles      = 6
	LongRunMinPerMi = 9.0
	EasyRunMinPerMi = 9.5
	DefaultRestOdds = 0.3
)

// PlanWeek is the order days are laid out in, Monday first
var PlanWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Random is the source of variety in a plan. Float64 returns a value in [0, 1).
type Random interface {
	Float64() float64
}

// NewRandom returns a seeded Random
func NewRandom(seed uint64) Random {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Options configures the weekly layout
type Options struct {
	LongRunDay      time.Weekday
	TempoDays       []time.Weekday
	RestDays        []time.Weekday
	RestProbability float64
	// BaseWeeklyMiles overrides the weekly volume derived from the last 30 days when > 0
	BaseWeeklyMiles float64
}

// DefaultOptions anchors the long run on Tuesday with tempo on Thursday and
// Saturday and optional rest on Wednesday and Sunday
func DefaultOptions() Options {
	return Options{
		LongRunDay:      time.Tuesday,
		TempoDays:       []time.Weekday{time.Thursday, time.Saturday},
		RestDays:        []time.Weekday{time.Wednesday, time.Sunday},
		RestProbability: DefaultRestOdds,
	}
}

// DayPlan is the prescription for a single day
type DayPlan struct {
	Day         time.Weekday `json:"-"`
	DayName     string       `json:"day"`
	Type        SessionType  `json:"type"`
	Miles       int          `json:"miles,omitempty"`
	Distance    string       `json:"distance,omitempty"`
	Pace        string       `json:"pace,omitempty"`
	Description string       `json:"description"`
	Minutes     int          `json:"minutes,omitempty"`
	Duration    string       `json:"duration,omitempty"`
}

// Plan is a generated training week with its narrative
type Plan struct {
	WeekType          WeekType  `json:"week_type"`
	BaseWeeklyMiles   float64   `json:"base_weekly_miles"`
	WeeklyTargetMiles float64   `json:"weekly_target_miles"`
	Days              []DayPlan `json:"days"`
	Rationale         string    `json:"rationale"`
	FocusPoints       []string  `json:"focus_points"`
	Cautions          []string  `json:"cautions"`
}

// ChooseWeekType maps the current state onto a week type
func ChooseWeekType(state CurrentState) WeekType {
	switch {
	case state.Fatigue == FatigueHigh:
		return WeekRecovery
	case state.Readiness == ReadinessWellRested && state.Fatigue == FatigueLow:
		return WeekBuild
	default:
		return WeekBase
	}
}

// AdjustmentFactor scales the base weekly volume for a week type
func AdjustmentFactor(wt WeekType) float64 {
	switch wt {
	case WeekRecovery:
		return 0.8
	case WeekBuild:
		return 1.1
	default:
		return 1.0
	}
}

// LongRunMiles sizes the anchored long run
func LongRunMiles(weeklyTarget float64) int {
	return max(MinLongRunMiles, int(math.Round(weeklyTarget*LongRunShare)))
}

// BuildPlan lays out a week from a synthesis. rng is consulted for optional
// rest days and easy-run variation, in day order.
func BuildPlan(s Synthesis, opts Options, rng Random) Plan {
	weekType := ChooseWeekType(s.CurrentState)

	base := opts.BaseWeeklyMiles
	if base <= 0 {
		base = s.AthleteProfile.WeeklyMiles
	}
	target := base * AdjustmentFactor(weekType)

	days := make([]DayPlan, 0, len(PlanWeek))
	for i, day := range PlanWeek {
		days = append(days, planDay(day, i, weekType, target, opts, rng))
	}

	return Plan{
		WeekType:          weekType,
		BaseWeeklyMiles:   base,
		WeeklyTargetMiles: target,
		Days:              days,
		Rationale:         Rationale(weekType, s.CurrentState, base),
		FocusPoints:       FocusPoints(weekType, opts.LongRunDay),
		Cautions:          Cautions(s),
	}
}

func planDay(day time.Weekday, index int, weekType WeekType, target float64, opts Options, rng Random) DayPlan {
	name := day.String()

	if day == opts.LongRunDay {
		miles := LongRunMiles(target)
		minutes := int(math.Round(float64(miles) * LongRunMinPerMi))
		return DayPlan{
			Day:         day,
			DayName:     name,
			Type:        SessionLongRun,
			Miles:       miles,
			Distance:    fmt.Sprintf("%d miles", miles),
			Pace:        "Easy/Conversational",
			Description: fmt.Sprintf("Signature %s long run at comfortable effort. Focus on time on feet and aerobic development.", name),
			Minutes:     minutes,
			Duration:    fmt.Sprintf("%d minutes estimated", minutes),
		}
	}

	if slices.Contains(opts.RestDays, day) && rng.Float64() > 1-opts.RestProbability {
		return restDay(day, "Complete rest or light cross-training (walking, stretching, yoga)")
	}

	if weekType == WeekBuild && slices.Contains(opts.TempoDays, day) {
		return DayPlan{
			Day:         day,
			DayName:     name,
			Type:        SessionTempo,
			Miles:       TempoMiles,
			Distance:    "5-6 miles",
			Pace:        "Easy warm-up, 20-30 min tempo, easy cool-down",
			Description: "Structured workout: 2 mile warm-up, 20-30 minutes at comfortably hard pace (half marathon effort), 1 mile cool-down",
			Minutes:     55,
			Duration:    "45-55 minutes",
		}
	}

	if index%2 == 0 {
		miles := max(MinEasyRunMiles, int(math.Round(target*EasyRunShare))+int(math.Floor(rng.Float64()*2)))
		minutes := int(math.Round(float64(miles) * EasyRunMinPerMi))
		return DayPlan{
			Day:         day,
			DayName:     name,
			Type:        SessionEasy,
			Miles:       miles,
			Distance:    fmt.Sprintf("%d miles", miles),
			Pace:        "Easy/Recovery",
			Description: "Comfortable pace run. Should feel relaxed and sustainable.",
			Minutes:     minutes,
			Duration:    fmt.Sprintf("%d minutes estimated", minutes),
		}
	}

	return restDay(day, "Rest or optional easy cross-training")
}

func restDay(day time.Weekday, description string) DayPlan {
	return DayPlan{
		Day:         day,
		DayName:     day.String(),
		Type:        SessionRest,
		Description: description,
	}
}

// ParseWeekday parses a full English weekday name, case-insensitively
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}
