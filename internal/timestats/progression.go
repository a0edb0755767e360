package timestats

import "github.com/park285/pgn-clockscore/internal/movetime"

// Row is one line of the per-move statistics table.
type Row struct {
	Index      int
	SAN        string
	TimeUsed   float64
	Cumulative float64
	// Remaining may go negative when a side overspends its allotment.
	Remaining float64
	AvgSoFar  float64
	DeltaPct  float64
	Remark    Pace
}

// Progression builds the running per-move table for one side.
func Progression(records []movetime.Record, initialTime float64, s Summary) []Row {
	rows := make([]Row, 0, len(records))
	var cum float64
	for i, r := range records {
		cum += r.TimeUsed
		row := Row{
			Index:      i + 1,
			SAN:        r.SAN,
			TimeUsed:   r.TimeUsed,
			Cumulative: cum,
			Remaining:  initialTime - cum,
			AvgSoFar:   cum / float64(i+1),
			Remark:     Remark(r.TimeUsed, s.RecommendedAvg),
		}
		if s.AvgTime != 0 {
			row.DeltaPct = (r.TimeUsed - s.AvgTime) / s.AvgTime * 100
		}
		rows = append(rows, row)
	}
	return rows
}
