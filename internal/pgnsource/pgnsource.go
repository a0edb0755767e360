// Package pgnsource reads PGN text into the mainline view used by movetime.
package pgnsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/pgn-clockscore/internal/clock"
	"github.com/park285/pgn-clockscore/internal/movetime"
)

// ErrNoGame is returned when the input holds no parsable game.
var ErrNoGame = errors.New("no game found")

// Game adapts the first game of a PGN stream to movetime.Game.
type Game struct {
	src   *nchess.Game
	plies []ply
}

type ply struct {
	side       movetime.Side
	san        string
	annotation string
}

// Read parses the first game in r.
func Read(r io.Reader) (*Game, error) {
	scanner := nchess.NewScanner(r)
	if !scanner.HasNext() {
		return nil, ErrNoGame
	}
	g, err := scanner.ParseNext()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGame, err)
	}
	if g == nil {
		return nil, ErrNoGame
	}
	return adapt(g), nil
}

// Parse is Read over an in-memory PGN.
func Parse(pgn []byte) (*Game, error) {
	if len(bytes.TrimSpace(pgn)) == 0 {
		return nil, ErrNoGame
	}
	return Read(bytes.NewReader(pgn))
}

func adapt(g *nchess.Game) *Game {
	moves := g.Moves()
	positions := g.Positions()
	notation := nchess.AlgebraicNotation{}
	out := &Game{src: g, plies: make([]ply, 0, len(moves))}
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		pos := positions[i]
		side := movetime.White
		if pos.Turn() == nchess.Black {
			side = movetime.Black
		}
		out.plies = append(out.plies, ply{
			side:       side,
			san:        notation.Encode(pos, mv),
			annotation: annotation(mv),
		})
	}
	return out
}

// annotation returns the move comment; a clock the parser lifted into its
// command map is written back as a [%clk] marker.
func annotation(mv *nchess.Move) string {
	text := mv.Comments()
	if _, ok := clock.FindMarker(text); ok {
		return text
	}
	if v, ok := mv.GetCommand("clk"); ok && strings.TrimSpace(v) != "" {
		marker := "[%clk " + strings.TrimSpace(v) + "]"
		if strings.TrimSpace(text) == "" {
			return marker
		}
		return marker + " " + text
	}
	return text
}

// Header returns the tag pair value; empty values count as absent.
func (g *Game) Header(key string) (string, bool) {
	if g == nil || g.src == nil {
		return "", false
	}
	v := g.src.GetTagPair(key)
	if v == "" {
		return "", false
	}
	return v, true
}

func (g *Game) Root() movetime.Node { return node{game: g, next: 0} }

// PlyCount is the number of mainline half-moves.
func (g *Game) PlyCount() int { return len(g.plies) }

type node struct {
	game *Game
	next int
}

func (n node) Next() (movetime.Ply, bool) {
	if n.game == nil || n.next >= len(n.game.plies) {
		return nil, false
	}
	return plyNode{node: node{game: n.game, next: n.next + 1}, p: n.game.plies[n.next]}, true
}

type plyNode struct {
	node
	p ply
}

func (p plyNode) Side() movetime.Side { return p.p.side }
func (p plyNode) SAN() string         { return p.p.san }
func (p plyNode) Annotation() string  { return p.p.annotation }
