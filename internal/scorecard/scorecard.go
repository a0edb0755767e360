// Package scorecard assembles everything the report needs from one game.
package scorecard

import (
	"strings"

	"github.com/park285/pgn-clockscore/internal/movetime"
	"github.com/park285/pgn-clockscore/internal/timestats"
)

// Header holds the display values of the game's tag pairs, placeholders applied.
type Header struct {
	White       string `json:"white"`
	Black       string `json:"black"`
	WhiteElo    string `json:"white_elo"`
	BlackElo    string `json:"black_elo"`
	Event       string `json:"event"`
	TimeControl string `json:"time_control"`
	EndTime     string `json:"end_time"`
	PlyCount    string `json:"ply_count"`
	Result      string `json:"result"`
}

// HeaderFrom reads the report headers from g. Absent or blank tags fall back
// to fixed placeholders.
func HeaderFrom(g movetime.Game) Header {
	get := func(key, placeholder string) string {
		if g == nil {
			return placeholder
		}
		v, ok := g.Header(key)
		if !ok || strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	}
	return Header{
		White:       get("White", "White"),
		Black:       get("Black", "Black"),
		WhiteElo:    get("WhiteElo", "N/A"),
		BlackElo:    get("BlackElo", "N/A"),
		Event:       get("Event", "Unknown"),
		TimeControl: get("TimeControl", "Unknown"),
		EndTime:     get("EndTime", "Unknown"),
		PlyCount:    get("PlyCount", "Unknown"),
		Result:      get("Result", "?"),
	}
}

// SideCard is one player's slice of the analysis.
type SideCard struct {
	Records  []movetime.Record
	Summary  timestats.Summary
	Segments timestats.Segments
	Rows     []timestats.Row
}

// Scorecard is the complete analysis of one game.
type Scorecard struct {
	Header Header
	Moves  *movetime.Result
	White  SideCard
	Black  SideCard
}

// Options tune Build.
type Options struct {
	DefaultInitialTime float64
	SegmentBaseline    float64
}

// DefaultOptions are the values used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DefaultInitialTime: movetime.DefaultInitialTime,
		SegmentBaseline:    timestats.DefaultSegmentBaseline,
	}
}

// Build runs extraction and statistics over g.
func Build(g movetime.Game, opts Options) *Scorecard {
	if opts.SegmentBaseline <= 0 {
		opts.SegmentBaseline = timestats.DefaultSegmentBaseline
	}
	moves := movetime.Extract(g, movetime.WithDefaultInitialTime(opts.DefaultInitialTime))
	return &Scorecard{
		Header: HeaderFrom(g),
		Moves:  moves,
		White:  sideCard(moves.White(), moves.InitialTime, opts.SegmentBaseline),
		Black:  sideCard(moves.Black(), moves.InitialTime, opts.SegmentBaseline),
	}
}

func sideCard(records []movetime.Record, initialTime, baseline float64) SideCard {
	summary := timestats.Summarize(records, initialTime)
	return SideCard{
		Records:  records,
		Summary:  summary,
		Segments: timestats.AnalyzeSegments(records, baseline),
		Rows:     timestats.Progression(records, initialTime, summary),
	}
}
