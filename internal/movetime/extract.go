// Package movetime reconstructs per-move time usage from the clock markers of
// a game's mainline.
package movetime

import (
	"strconv"
	"strings"

	"github.com/park285/pgn-clockscore/internal/clock"
)

const (
	// TimeControlHeader holds the starting allotment in seconds.
	TimeControlHeader = "TimeControl"
	// DefaultInitialTime applies when TimeControl is absent or unparsable.
	DefaultInitialTime = 1800.0
)

// Options tune extraction.
type Options struct {
	DefaultInitialTime float64
}

// Option mutates Options.
type Option func(*Options)

// WithDefaultInitialTime overrides the fallback starting allotment.
func WithDefaultInitialTime(secs float64) Option {
	return func(o *Options) {
		if secs > 0 {
			o.DefaultInitialTime = secs
		}
	}
}

// Result is the ordered outcome of one extraction.
type Result struct {
	Records     []Record
	InitialTime float64
}

type clockState struct {
	white float64
	black float64
}

func (c clockState) last(side Side) float64 {
	if side == Black {
		return c.black
	}
	return c.white
}

// observe spends time for side and returns the state anchored to reading.
func (c clockState) observe(side Side, reading float64) (clockState, float64) {
	used := c.last(side) - reading
	if side == Black {
		c.black = reading
	} else {
		c.white = reading
	}
	return c, used
}

// Extract walks the mainline of g and derives one Record per ply.
func Extract(g Game, opts ...Option) *Result {
	o := Options{DefaultInitialTime: DefaultInitialTime}
	for _, opt := range opts {
		opt(&o)
	}

	initial := InitialTime(g, o.DefaultInitialTime)
	res := &Result{InitialTime: initial}
	if g == nil {
		return res
	}

	state := clockState{white: initial, black: initial}
	var node Node = g.Root()
	for node != nil {
		ply, ok := node.Next()
		if !ok || ply == nil {
			break
		}
		rec := Record{Side: ply.Side(), SAN: ply.SAN()}
		reading, marker := clock.Read(ply.Annotation())
		rec.Marker = marker
		if marker == clock.MarkerFound {
			rec.Clock = reading
			state, rec.TimeUsed = state.observe(rec.Side, reading)
		}
		res.Records = append(res.Records, rec)
		node = ply
	}
	return res
}

// InitialTime reads the TimeControl header as seconds, falling back to def.
func InitialTime(g Game, def float64) float64 {
	if g == nil {
		return def
	}
	raw, ok := g.Header(TimeControlHeader)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return v
}

// White returns White's records in play order.
func (r *Result) White() []Record { return r.bySide(White) }

// Black returns Black's records in play order.
func (r *Result) Black() []Record { return r.bySide(Black) }

func (r *Result) bySide(side Side) []Record {
	out := make([]Record, 0, len(r.Records)/2+1)
	for _, rec := range r.Records {
		if rec.Side == side {
			out = append(out, rec)
		}
	}
	return out
}

// FinalClock is the last clock reading seen for side, or the initial time.
func (r *Result) FinalClock(side Side) float64 {
	last := r.InitialTime
	for _, rec := range r.Records {
		if rec.Side == side && rec.Marker == clock.MarkerFound {
			last = rec.Clock
		}
	}
	return last
}

// MarkerCount counts plies whose annotation had the given marker status.
func (r *Result) MarkerCount(m clock.Marker) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Marker == m {
			n++
		}
	}
	return n
}

// Pairs groups consecutive White/Black records under ascending move numbers.
// A leading Black record or a trailing White record stands alone.
func (r *Result) Pairs() []Pair {
	var pairs []Pair
	number := 1
	for i := 0; i < len(r.Records); {
		p := Pair{Number: number}
		if r.Records[i].Side == White {
			p.White = &r.Records[i]
			i++
		}
		if i < len(r.Records) && r.Records[i].Side == Black {
			p.Black = &r.Records[i]
			i++
		}
		pairs = append(pairs, p)
		number++
	}
	return pairs
}
