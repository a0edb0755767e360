package timestats

import "github.com/park285/pgn-clockscore/internal/movetime"

// Segments compares the early and later halves of one side's moves.
type Segments struct {
	Sufficient bool
	EarlyAvg   float64
	LaterAvg   float64
	// Early is judged against the baseline, Later against the early average.
	Early Pace
	Later Pace
}

// AnalyzeSegments splits records at len/2 (the first half is the smaller one
// for odd lengths). Fewer than two records are reported as insufficient.
func AnalyzeSegments(records []movetime.Record, baseline float64) Segments {
	if len(records) < 2 {
		return Segments{}
	}
	half := len(records) / 2
	seg := Segments{
		Sufficient: true,
		EarlyAvg:   mean(records[:half]),
		LaterAvg:   mean(records[half:]),
	}
	seg.Early = classify(seg.EarlyAvg, baseline*0.9, baseline*1.1)
	seg.Later = classify(seg.LaterAvg, seg.EarlyAvg*0.9, seg.EarlyAvg*1.1)
	return seg
}
