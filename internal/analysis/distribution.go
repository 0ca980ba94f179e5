package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Pace and effort thresholds
const (
	EasyPaceOffset = 1.5 // min/mile slower than median
	HardPaceOffset = 1.0 // min/mile faster than median

	EasyHRFraction = 0.70 // of max observed HR
	HardHRFraction = 0.85

	ShortRunMiles = 4
	LongRunMiles  = 8
)

// Bucket is a count with its share of the total. Shares are rounded
// independently, so a set of buckets need not sum to exactly 100.
type Bucket struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

func newBucket(count, total int) Bucket {
	return Bucket{Count: count, Percentage: percentage(count, total)}
}

// PaceDistribution splits pace-eligible runs into effort buckets relative to the median pace
type PaceDistribution struct {
	Easy              Bucket  `json:"easy"`
	Moderate          Bucket  `json:"moderate"`
	Hard              Bucket  `json:"hard"`
	MedianPace        string  `json:"median_pace"`
	MedianPaceMinutes float64 `json:"median_pace_minutes"`
	Total             int     `json:"total"`
}

// EffortDistribution splits runs with heart rate data into effort buckets
// relative to the highest average heart rate observed in the set
type EffortDistribution struct {
	Easy          Bucket `json:"easy"`
	Moderate      Bucket `json:"moderate"`
	Hard          Bucket `json:"hard"`
	AverageHR     int    `json:"average_hr"`
	MaxObservedHR int    `json:"max_observed_hr"`
	Total         int    `json:"total"`
}

// DistanceDistribution buckets every run by length
type DistanceDistribution struct {
	Short            Bucket  `json:"short"`
	Medium           Bucket  `json:"medium"`
	Long             Bucket  `json:"long"`
	FavoriteDistance string  `json:"favorite_distance"`
	AverageDistance  float64 `json:"average_distance"` // miles
	Total            int     `json:"total"`
}

// medianOf returns sorted[len/2]. For even lengths this is the upper
// of the two middle elements, not their mean. sorted must be ascending and non-empty.
func medianOf(sorted []float64) float64 {
	return sorted[len(sorted)/2]
}

// paces returns pace in minutes per mile for every pace-eligible run
func (a *Analyzer) paces() []float64 {
	var out []float64
	for _, act := range a.activities {
		if act.PaceEligible() {
			out = append(out, act.PaceMinutesPerMile())
		}
	}
	return out
}

// PaceDistribution classifies pace-eligible runs as easy, moderate or hard.
// Returns nil when no run is pace-eligible.
func (a *Analyzer) PaceDistribution() *PaceDistribution {
	paces := a.paces()
	if len(paces) == 0 {
		return nil
	}

	sorted := append([]float64(nil), paces...)
	sort.Float64s(sorted)
	median := medianOf(sorted)

	easyThreshold := median + EasyPaceOffset
	hardThreshold := median - HardPaceOffset

	var easy, moderate, hard int
	for _, pace := range paces {
		switch {
		case pace >= easyThreshold:
			easy++
		case pace <= hardThreshold:
			hard++
		default:
			moderate++
		}
	}

	total := len(paces)
	return &PaceDistribution{
		Easy:              newBucket(easy, total),
		Moderate:          newBucket(moderate, total),
		Hard:              newBucket(hard, total),
		MedianPace:        FormatPace(median * 60),
		MedianPaceMinutes: median,
		Total:             total,
	}
}

// EffortDistribution classifies runs with heart rate data. Returns nil when none have it.
func (a *Analyzer) EffortDistribution() *EffortDistribution {
	var hrs []float64
	for _, act := range a.activities {
		if act.HasHeartrate() {
			hrs = append(hrs, *act.AverageHeartrate)
		}
	}
	if len(hrs) == 0 {
		return nil
	}

	maxHR, sum := 0.0, 0.0
	for _, hr := range hrs {
		sum += hr
		if hr > maxHR {
			maxHR = hr
		}
	}

	easyThreshold := maxHR * EasyHRFraction
	hardThreshold := maxHR * HardHRFraction

	var easy, moderate, hard int
	for _, hr := range hrs {
		switch {
		case hr <= easyThreshold:
			easy++
		case hr <= hardThreshold:
			moderate++
		default:
			hard++
		}
	}

	total := len(hrs)
	return &EffortDistribution{
		Easy:          newBucket(easy, total),
		Moderate:      newBucket(moderate, total),
		Hard:          newBucket(hard, total),
		AverageHR:     int(math.Round(sum / float64(total))),
		MaxObservedHR: int(math.Round(maxHR)),
		Total:         total,
	}
}

// DistanceDistribution buckets every run as short (<4mi), medium (4-8mi) or long (>8mi)
// and finds the most common whole-mile distance.
func (a *Analyzer) DistanceDistribution() DistanceDistribution {
	total := len(a.activities)
	if total == 0 {
		return DistanceDistribution{FavoriteDistance: "N/A"}
	}

	var short, medium, long int
	var sum float64

	// whole-mile bucket -> count, with first-seen order for tie breaking
	counts := make(map[int]int)
	var order []int

	for _, act := range a.activities {
		miles := act.Miles()
		sum += miles

		switch {
		case miles < ShortRunMiles:
			short++
		case miles <= LongRunMiles:
			medium++
		default:
			long++
		}

		bucket := int(math.Floor(miles))
		if _, seen := counts[bucket]; !seen {
			order = append(order, bucket)
		}
		counts[bucket]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	favorite := order[0]

	return DistanceDistribution{
		Short:            newBucket(short, total),
		Medium:           newBucket(medium, total),
		Long:             newBucket(long, total),
		FavoriteDistance: fmt.Sprintf("%d-%d miles", favorite, favorite+1),
		AverageDistance:  sum / float64(total),
		Total:            total,
	}
}
