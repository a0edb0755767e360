package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/park285/pgn-clockscore/internal/movetime"
	"github.com/park285/pgn-clockscore/internal/msgcat"
	"github.com/park285/pgn-clockscore/internal/scorecard"
	"github.com/park285/pgn-clockscore/internal/timestats"
)

func newFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(cat)
}

func scenario() *scorecard.Scorecard {
	g := &movetime.StaticGame{
		Headers: map[string]string{
			"TimeControl": "1800", "White": "Alice", "Black": "Bob",
			"WhiteElo": "1500", "BlackElo": "1620", "Result": "1-0", "Event": "Rated Rapid game",
		},
		Plies: []movetime.StaticPly{
			{Side: movetime.White, SAN: "e4", Comment: "[%clk 0:29:40]"},
			{Side: movetime.Black, SAN: "e5", Comment: "[%clk 0:29:35]"},
			{Side: movetime.White, SAN: "Nf3", Comment: "[%clk 0:29:20]"},
			{Side: movetime.Black, SAN: "Nc6", Comment: "[%clk 0:29:10]"},
			{Side: movetime.White, SAN: "Bb5", Comment: "[%clk 0:28:00]"},
		},
	}
	return scorecard.Build(g, scorecard.DefaultOptions())
}

func TestHeaderBlock(t *testing.T) {
	got := HeaderBlock(scorecard.HeaderFrom(&movetime.StaticGame{}))
	want := "White (N/A) vs Black (N/A)\n" +
		"Game Type: Unknown\n" +
		"Time Control: Unknown sec, End Time: Unknown, PlyCount: Unknown\n" +
		"Result: ?"
	if got != want {
		t.Fatalf("HeaderBlock =\n%s\nwant\n%s", got, want)
	}
}

func TestMoveList(t *testing.T) {
	got := MoveList(scenario().Moves)
	want := []string{
		"1. e4 (20.0s) e5 (25.0s)",
		"2. Nf3 (20.0s) Nc6 (25.0s)",
		"3. Bb5 (80.0s)",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("MoveList = %q", got)
	}

	leading := &movetime.Result{Records: []movetime.Record{{Side: movetime.Black, SAN: "e5", TimeUsed: 3}}}
	if got := MoveList(leading); len(got) != 1 || got[0] != "1. e5 (3.0s)" {
		t.Fatalf("leading black = %q", got)
	}
}

func TestDetailTable(t *testing.T) {
	lines := DetailTable(scenario().White.Rows)
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d", len(lines))
	}
	header := "No.  Move      Time(s)     CumTime      Remain   AvgSoFar(s)  Delta(%)      Remark"
	if lines[0] != header {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(header)) {
		t.Fatalf("rule = %q", lines[1])
	}
	// avg = 40, recommended = 45
	want := "  1  e4           20.0       00:20       29:40          20.0     -50.0%        fast"
	if lines[2] != want {
		t.Fatalf("row 1 =\n%q\nwant\n%q", lines[2], want)
	}
	want = "  3  Bb5          80.0       02:00       28:00          40.0     100.0%        slow"
	if lines[4] != want {
		t.Fatalf("row 3 =\n%q\nwant\n%q", lines[4], want)
	}
}

func TestDetailTableOverspentClock(t *testing.T) {
	rows := timestats.Progression(
		[]movetime.Record{{SAN: "Qh5", TimeUsed: 90}},
		60,
		timestats.Summary{AvgTime: 90, RecommendedAvg: 1.5},
	)
	lines := DetailTable(rows)
	if !strings.Contains(lines[2], "       -1:30") {
		t.Fatalf("expected negative remaining clock, got %q", lines[2])
	}
}

func TestSegmentCommentsInsufficient(t *testing.T) {
	f := newFormatter(t)
	early, later := f.SegmentComments(timestats.AnalyzeSegments([]movetime.Record{{TimeUsed: 5}}, 45))
	if early != "Insufficient data for early game analysis." {
		t.Errorf("early = %q", early)
	}
	if later != "Insufficient data for later game analysis." {
		t.Errorf("later = %q", later)
	}
}

func TestSegmentComments(t *testing.T) {
	f := newFormatter(t)
	early, later := f.SegmentComments(scenario().White.Segments)
	if early != "Early game average: 20.0 s/move. Moves were notably faster than recommended." {
		t.Errorf("early = %q", early)
	}
	if later != "Later game average: 50.0 s/move. Moves became significantly slower in the later game." {
		t.Errorf("later = %q", later)
	}
}

func TestEfficiencyComment(t *testing.T) {
	f := newFormatter(t)
	for ratio, want := range map[float64]string{50: "playing too fast", 100: "using time optimally", 140: "playing too slow"} {
		if got := f.EfficiencyComment(ratio); got != want {
			t.Errorf("EfficiencyComment(%v) = %q, want %q", ratio, got, want)
		}
	}
}

func TestRenderSections(t *testing.T) {
	out := newFormatter(t).Render(scenario())
	if !strings.HasPrefix(out, "Alice (1500) vs Bob (1620)\nGame Type: Rated Rapid game\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	order := []string{
		"\n\nGame Moves:\n1. e4 (20.0s) e5 (25.0s)\n",
		"\n\nDetailed Move Statistics:\n\nWhite Moves:\n",
		"\n\nBlack Moves:\n",
		"\n\nGame Analysis:\n\nWhite: Alice (1500)\n  Moves played: 3\n",
		"  Recommended average move time (based on 40 moves): 45.0 s\n",
		"\nBlack: Bob (1620)\n  Moves played: 2\n  Total time used: 50.0 s\n",
	}
	pos := 0
	for _, part := range order {
		idx := strings.Index(out[pos:], part)
		if idx < 0 {
			t.Fatalf("missing or out of order section %q in:\n%s", part, out)
		}
		pos += idx + len(part)
	}
	if !strings.Contains(out, "Overall Performance (White): Averaged 40.0 s/move (clock efficiency: 88.9%). This extremely low clock efficiency indicates highly aggressive, instinct-driven play.\n") {
		t.Fatalf("missing white performance line:\n%s", out)
	}
	if !strings.Contains(out, "Overall Performance (Black): Averaged 25.0 s/move (clock efficiency: 55.6%). This low clock efficiency indicates rapid, aggressive decision-making.\n") {
		t.Fatalf("missing black performance line:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n\nCombined, the rapid and variable play suggests aggressive, intuitive decision-making from both sides.\n") {
		t.Fatalf("missing closing summary:\n%s", out)
	}
}

func TestPresenterDeliver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "score.txt")
	if err := NewPresenter(nil).Deliver(path, "hello\n"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello\n" {
		t.Fatalf("read back %q %v", b, err)
	}
	if err := NewPresenter(nil).Deliver(" ", "x"); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
