package pgnsource

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/pgn-clockscore/internal/movetime"
)

const rapidGame = `[Event "Rated Rapid game"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]
[WhiteElo "1500"]
[BlackElo "1620"]
[TimeControl "1800"]

1. e4 { [%clk 0:29:40] } 1... e5 { [%clk 0:29:35] } 2. Nf3 { [%clk 0:29:20] } 2... Nc6 { [%clk 0:29:10] } 1-0
`

func TestParseHeadersAndPlies(t *testing.T) {
	g, err := Parse([]byte(rapidGame))
	require.NoError(t, err)

	v, ok := g.Header("White")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)
	_, ok = g.Header("EndTime")
	assert.False(t, ok)
	assert.Equal(t, 4, g.PlyCount())

	var sides []movetime.Side
	var sans []string
	for n := g.Root(); ; {
		p, ok := n.Next()
		if !ok {
			break
		}
		sides = append(sides, p.Side())
		sans = append(sans, p.SAN())
		n = p
	}
	assert.Equal(t, []movetime.Side{movetime.White, movetime.Black, movetime.White, movetime.Black}, sides)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6"}, sans)
}

func TestParseFeedsExtraction(t *testing.T) {
	g, err := Parse([]byte(rapidGame))
	require.NoError(t, err)

	res := movetime.Extract(g)
	assert.Equal(t, 1800.0, res.InitialTime)

	var white, black []float64
	for _, r := range res.White() {
		white = append(white, r.TimeUsed)
	}
	for _, r := range res.Black() {
		black = append(black, r.TimeUsed)
	}
	assert.InDeltaSlice(t, []float64{20, 20}, white, 1e-9)
	assert.InDeltaSlice(t, []float64{25, 25}, black, 1e-9)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.True(t, errors.Is(err, ErrNoGame))

	_, err = Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoGame))
}
