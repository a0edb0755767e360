// Package timestats computes aggregate and segmented move-time statistics.
package timestats

import (
	"math"

	"github.com/park285/pgn-clockscore/internal/movetime"
)

const (
	// MovesPerGame is the move count the recommended average is spread over.
	MovesPerGame = 40.0
	// DefaultSegmentBaseline is the per-move baseline for early-game verdicts.
	DefaultSegmentBaseline = 45.0
)

// Pace classifies a time against a reference band.
type Pace int

const (
	PaceOptimal Pace = iota
	PaceFast
	PaceSlow
)

func (p Pace) String() string {
	switch p {
	case PaceFast:
		return "fast"
	case PaceSlow:
		return "slow"
	default:
		return "optimal"
	}
}

// Summary aggregates one side's move times.
type Summary struct {
	Count           int     `json:"count"`
	TotalTime       float64 `json:"total_time"`
	AvgTime         float64 `json:"avg_time"`
	StdDev          float64 `json:"std_dev"`
	Consistency     float64 `json:"consistency"`
	RecommendedAvg  float64 `json:"recommended_avg"`
	EfficiencyRatio float64 `json:"efficiency_ratio"`
}

// Summarize computes the Summary of records. Empty input yields a zero Summary.
func Summarize(records []movetime.Record, initialTime float64) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(records)}
	for _, r := range records {
		s.TotalTime += r.TimeUsed
	}
	s.AvgTime = s.TotalTime / float64(s.Count)

	var sq float64
	for _, r := range records {
		d := r.TimeUsed - s.AvgTime
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(s.Count))
	if s.AvgTime != 0 {
		s.Consistency = s.StdDev / s.AvgTime * 100
	}

	s.RecommendedAvg = initialTime / MovesPerGame
	if s.RecommendedAvg != 0 {
		s.EfficiencyRatio = s.AvgTime / s.RecommendedAvg * 100
	}
	return s
}

// Efficiency classifies a whole-game efficiency ratio (percent).
func Efficiency(ratio float64) Pace {
	return classify(ratio, 90, 110)
}

// Remark classifies one move against the recommended average, ±20%.
func Remark(timeUsed, recommendedAvg float64) Pace {
	if recommendedAvg == 0 {
		return PaceOptimal
	}
	return classify(timeUsed, recommendedAvg*0.8, recommendedAvg*1.2)
}

func classify(v, low, high float64) Pace {
	switch {
	case v < low:
		return PaceFast
	case v > high:
		return PaceSlow
	default:
		return PaceOptimal
	}
}

func mean(records []movetime.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.TimeUsed
	}
	return sum / float64(len(records))
}
