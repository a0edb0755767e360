package report

import (
	"fmt"
	"strings"

	"github.com/park285/pgn-clockscore/internal/clock"
	"github.com/park285/pgn-clockscore/internal/movetime"
	"github.com/park285/pgn-clockscore/internal/obslog"
	"github.com/park285/pgn-clockscore/internal/scorecard"
	"github.com/park285/pgn-clockscore/internal/timestats"
	"go.uber.org/zap"
)

const (
	movesHeading    = "Game Moves:"
	detailHeading   = "Detailed Move Statistics:"
	analysisHeading = "Game Analysis:"
)

// Templates looks up report prose by key.
type Templates interface {
	Render(key string, data any) (string, error)
}

// Formatter renders a scorecard into the plain-text report.
type Formatter struct {
	templates Templates
}

func NewFormatter(templates Templates) *Formatter {
	return &Formatter{templates: templates}
}

// Render produces the whole report, sections in fixed order.
func (f *Formatter) Render(sc *scorecard.Scorecard) string {
	if sc == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(HeaderBlock(sc.Header))
	sb.WriteString("\n\n")

	sb.WriteString(movesHeading + "\n")
	for _, line := range MoveList(sc.Moves) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(detailHeading + "\n\n")
	sb.WriteString("White Moves:\n")
	for _, line := range DetailTable(sc.White.Rows) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString("Black Moves:\n")
	for _, line := range DetailTable(sc.Black.Rows) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	for _, line := range f.Analysis(sc) {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// HeaderBlock renders the player/event block without a trailing newline.
func HeaderBlock(h scorecard.Header) string {
	return fmt.Sprintf("%s (%s) vs %s (%s)\n", h.White, h.WhiteElo, h.Black, h.BlackElo) +
		fmt.Sprintf("Game Type: %s\n", h.Event) +
		fmt.Sprintf("Time Control: %s sec, End Time: %s, PlyCount: %s\n", h.TimeControl, h.EndTime, h.PlyCount) +
		fmt.Sprintf("Result: %s", h.Result)
}

// MoveList renders one line per move number: "N. SAN (t s) SAN (t s)".
func MoveList(res *movetime.Result) []string {
	if res == nil {
		return nil
	}
	pairs := res.Pairs()
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		line := fmt.Sprintf("%d. ", p.Number)
		if p.White != nil {
			line += fmt.Sprintf("%s (%.1fs) ", p.White.SAN, p.White.TimeUsed)
		}
		if p.Black != nil {
			line += fmt.Sprintf("%s (%.1fs)", p.Black.SAN, p.Black.TimeUsed)
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// DetailTable renders the per-move statistics table for one side.
func DetailTable(rows []timestats.Row) []string {
	header := fmt.Sprintf("%3s  %-8s  %7s  %10s  %10s  %12s  %8s  %10s",
		"No.", "Move", "Time(s)", "CumTime", "Remain", "AvgSoFar(s)", "Delta(%)", "Remark")
	lines := []string{header, strings.Repeat("-", len(header))}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%3d  %-8s  %7.1f  %10s  %10s  %12.1f  %8.1f%%  %10s",
			r.Index, r.SAN, r.TimeUsed,
			clock.FormatMMSS(r.Cumulative), clock.FormatMMSS(r.Remaining),
			r.AvgSoFar, r.DeltaPct, r.Remark))
	}
	return lines
}

// Analysis renders the narrative section, heading included.
func (f *Formatter) Analysis(sc *scorecard.Scorecard) []string {
	lines := []string{analysisHeading, ""}
	lines = append(lines, f.sideAnalysis("White", sc.Header.White, sc.Header.WhiteElo, sc.White)...)
	lines = append(lines, "")
	lines = append(lines, f.sideAnalysis("Black", sc.Header.Black, sc.Header.BlackElo, sc.Black)...)
	lines = append(lines, "",
		f.performance("White", sc.White.Summary),
		f.performance("Black", sc.Black.Summary),
		"",
		f.text("summary.closing", nil),
	)
	return lines
}

func (f *Formatter) sideAnalysis(label, name, elo string, side scorecard.SideCard) []string {
	s := side.Summary
	early, later := f.SegmentComments(side.Segments)
	return []string{
		fmt.Sprintf("%s: %s (%s)", label, name, elo),
		fmt.Sprintf("  Moves played: %d", s.Count),
		fmt.Sprintf("  Total time used: %.1f s", s.TotalTime),
		fmt.Sprintf("  Average move time: %.1f s", s.AvgTime),
		fmt.Sprintf("  Clock consistency (std dev/avg): %.1f%%", s.Consistency),
		fmt.Sprintf("  Recommended average move time (based on 40 moves): %.1f s", s.RecommendedAvg),
		fmt.Sprintf("  Clock efficiency: %.1f%% (%s)", s.EfficiencyRatio, f.EfficiencyComment(s.EfficiencyRatio)),
		fmt.Sprintf("  Early game analysis: %s", early),
		fmt.Sprintf("  Later game analysis: %s", later),
	}
}

// EfficiencyComment is the short verdict for a whole-game efficiency ratio.
func (f *Formatter) EfficiencyComment(ratio float64) string {
	return f.text("efficiency."+timestats.Efficiency(ratio).String(), nil)
}

// SegmentComments renders the early and later game sentences.
func (f *Formatter) SegmentComments(seg timestats.Segments) (string, string) {
	if !seg.Sufficient {
		return f.text("segment.early.insufficient", nil), f.text("segment.later.insufficient", nil)
	}
	early := f.text("segment.early.average", map[string]any{"Avg": seg.EarlyAvg}) +
		f.text("segment.early."+seg.Early.String(), nil)
	later := f.text("segment.later.average", map[string]any{"Avg": seg.LaterAvg}) +
		f.text("segment.later."+seg.Later.String(), nil)
	return early, later
}

func (f *Formatter) performance(label string, s timestats.Summary) string {
	sentence := f.text("performance."+strings.ToLower(label)+"."+timestats.Efficiency(s.EfficiencyRatio).String(), nil)
	return f.text("performance.line", map[string]any{
		"Side":       label,
		"Avg":        s.AvgTime,
		"Efficiency": s.EfficiencyRatio,
		"Sentence":   sentence,
	})
}

// text renders a catalog entry, falling back to the key so a broken override
// never drops a report.
func (f *Formatter) text(key string, data any) string {
	if f == nil || f.templates == nil {
		return key
	}
	out, err := f.templates.Render(key, data)
	if err != nil {
		obslog.L().Warn("report_template_error", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}
