package domain

import (
	"time"

	"github.com/park285/pgn-clockscore/internal/timestats"
)

// ClockAnalysis is the archived record of one analysed game.
type ClockAnalysis struct {
	ID           int64
	RunID        string
	InputHash    string
	White        string
	Black        string
	WhiteElo     string
	BlackElo     string
	Event        string
	Result       string
	TimeControl  string
	InitialTime  float64
	Plies        int
	WhiteSummary timestats.Summary
	BlackSummary timestats.Summary
	AnalyzedAt   time.Time
}
