package coach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandom replays values in order, cycling when exhausted
type fixedRandom struct {
	values []float64
	calls  int
}

func (f *fixedRandom) Float64() float64 {
	v := f.values[f.calls%len(f.values)]
	f.calls++
	return v
}

func constRandom(v float64) *fixedRandom {
	return &fixedRandom{values: []float64{v}}
}

func stateSynthesis(fatigue Fatigue, readiness Readiness) Synthesis {
	return Synthesis{
		CurrentState: CurrentState{Phase: PhaseBuilding, Fatigue: fatigue, Readiness: readiness},
	}
}

func baseOptions(miles float64) Options {
	opts := DefaultOptions()
	opts.BaseWeeklyMiles = miles
	return opts
}

func TestLongRunMiles(t *testing.T) {
	a := assert.New(t)
	a.Equal(7, LongRunMiles(20))
	a.Equal(6, LongRunMiles(10))
	a.Equal(6, LongRunMiles(0))
	a.Equal(14, LongRunMiles(40))
}

func TestChooseWeekType(t *testing.T) {
	tests := []struct {
		fatigue   Fatigue
		readiness Readiness
		want      WeekType
	}{
		{FatigueHigh, ReadinessWellRested, WeekRecovery},
		{FatigueHigh, ReadinessHighLoad, WeekRecovery},
		{FatigueLow, ReadinessWellRested, WeekBuild},
		{FatigueModerate, ReadinessWellRested, WeekBase},
		{FatigueLow, ReadinessNormal, WeekBase},
		{FatigueLow, ReadinessHighLoad, WeekBase},
	}

	for _, tt := range tests {
		t.Run(string(tt.fatigue)+"/"+string(tt.readiness), func(t *testing.T) {
			got := ChooseWeekType(CurrentState{Fatigue: tt.fatigue, Readiness: tt.readiness})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPlan_BaseWeek(t *testing.T) {
	a := assert.New(t)

	plan := BuildPlan(stateSynthesis(FatigueLow, ReadinessNormal), baseOptions(20), constRandom(0))

	a.Equal(WeekBase, plan.WeekType)
	a.Equal(20.0, plan.WeeklyTargetMiles)
	require.Len(t, plan.Days, 7)

	want := []struct {
		day   time.Weekday
		typ   SessionType
		miles int
	}{
		{time.Monday, SessionEasy, 3},
		{time.Tuesday, SessionLongRun, 7},
		{time.Wednesday, SessionEasy, 3},
		{time.Thursday, SessionRest, 0},
		{time.Friday, SessionEasy, 3},
		{time.Saturday, SessionRest, 0},
		{time.Sunday, SessionEasy, 3},
	}
	for i, w := range want {
		d := plan.Days[i]
		a.Equal(w.day, d.Day, "day %d", i)
		a.Equal(w.day.String(), d.DayName)
		a.Equal(w.typ, d.Type, "%s", d.DayName)
		a.Equal(w.miles, d.Miles, "%s", d.DayName)
	}

	long := plan.Days[1]
	a.Equal("7 miles", long.Distance)
	a.Equal(63, long.Minutes)
	a.Contains(long.Description, "Tuesday")
}

func TestBuildPlan_RestDays(t *testing.T) {
	a := assert.New(t)

	plan := BuildPlan(stateSynthesis(FatigueLow, ReadinessNormal), baseOptions(20), constRandom(0.99))

	a.Equal(SessionRest, plan.Days[2].Type, "Wednesday")
	a.Equal(SessionRest, plan.Days[6].Type, "Sunday")
	// easy runs gain a mile at the top of the random range
	a.Equal(SessionEasy, plan.Days[0].Type)
	a.Equal(4, plan.Days[0].Miles)
}

func TestBuildPlan_RestThreshold(t *testing.T) {
	// exactly 1 - p is not a rest day
	opts := baseOptions(20)
	opts.RestProbability = 0.5
	plan := BuildPlan(stateSynthesis(FatigueLow, ReadinessNormal), opts, constRandom(0.5))
	assert.Equal(t, SessionEasy, plan.Days[2].Type)

	opts = baseOptions(20)
	opts.RestProbability = 0
	plan = BuildPlan(stateSynthesis(FatigueLow, ReadinessNormal), opts, constRandom(0.999))
	assert.Equal(t, SessionEasy, plan.Days[2].Type)
	assert.Equal(t, SessionEasy, plan.Days[6].Type)
}

func TestBuildPlan_BuildWeek(t *testing.T) {
	a := assert.New(t)

	plan := BuildPlan(stateSynthesis(FatigueLow, ReadinessWellRested), baseOptions(30), constRandom(0))

	a.Equal(WeekBuild, plan.WeekType)
	a.InDelta(33.0, plan.WeeklyTargetMiles, 1e-9)
	a.Equal(SessionLongRun, plan.Days[1].Type)
	a.Equal(12, plan.Days[1].Miles) // round(33 * 0.35)
	a.Equal(SessionTempo, plan.Days[3].Type, "Thursday")
	a.Equal(SessionTempo, plan.Days[5].Type, "Saturday")
	a.Equal(TempoMiles, plan.Days[3].Miles)
}

func TestBuildPlan_RecoveryWeek(t *testing.T) {
	a := assert.New(t)

	plan := BuildPlan(stateSynthesis(FatigueHigh, ReadinessNormal), baseOptions(20), constRandom(0))

	a.Equal(WeekRecovery, plan.WeekType)
	a.InDelta(16.0, plan.WeeklyTargetMiles, 1e-9)
	a.Equal(6, plan.Days[1].Miles)
	for _, d := range plan.Days {
		a.NotEqual(SessionTempo, d.Type)
	}
}

func TestBuildPlan_NoTempoOutsideBuild(t *testing.T) {
	for _, s := range []Synthesis{
		stateSynthesis(FatigueLow, ReadinessNormal),
		stateSynthesis(FatigueHigh, ReadinessWellRested),
	} {
		plan := BuildPlan(s, baseOptions(25), constRandom(0.5))
		for _, d := range plan.Days {
			assert.NotEqual(t, SessionTempo, d.Type, "%s in %s week", d.DayName, plan.WeekType)
		}
	}
}

func TestBuildPlan_DerivedBaseMiles(t *testing.T) {
	s := stateSynthesis(FatigueLow, ReadinessNormal)
	s.AthleteProfile.WeeklyMiles = 24

	plan := BuildPlan(s, DefaultOptions(), constRandom(0))
	assert.Equal(t, 24.0, plan.BaseWeeklyMiles)
	assert.Equal(t, 8, plan.Days[1].Miles)
}

func TestBuildPlan_CustomLongRunDay(t *testing.T) {
	opts := baseOptions(20)
	opts.LongRunDay = time.Saturday

	plan := BuildPlan(stateSynthesis(FatigueLow, ReadinessNormal), opts, constRandom(0))
	assert.Equal(t, SessionLongRun, plan.Days[5].Type)
	assert.NotEqual(t, SessionLongRun, plan.Days[1].Type)
	assert.Contains(t, plan.FocusPoints[1], "Saturday")
}

func TestNewRandom_Deterministic(t *testing.T) {
	a, b := NewRandom(42), NewRandom(42)
	for i := 0; i < 10; i++ {
		va, vb := a.Float64(), b.Float64()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("tuesday")
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, d)

	d, err = ParseWeekday(" Sunday ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekday("Funday")
	assert.Error(t, err)
}
