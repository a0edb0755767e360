package movetime

import "github.com/park285/pgn-clockscore/internal/clock"

// Side identifies the player who made a ply.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Game is the read-only view of a parsed game record that extraction needs.
type Game interface {
	Header(key string) (string, bool)
	Root() Node
}

// Node is a position in the mainline. Root nodes carry no move.
type Node interface {
	// Next returns the mainline continuation, or false at the end of the game.
	Next() (Ply, bool)
}

// Ply is a single half-move together with the node it leads to.
type Ply interface {
	Node
	// Side is the side to move in the position before the ply.
	Side() Side
	// SAN renders the move against the position before the ply.
	SAN() string
	// Annotation is the free comment text attached to the ply.
	Annotation() string
}

// Record is the time one side spent on one ply.
type Record struct {
	Side     Side
	SAN      string
	TimeUsed float64
	Marker   clock.Marker
	Clock    float64 // valid when Marker == clock.MarkerFound
}

// Pair groups the White and Black records that share a move number.
type Pair struct {
	Number int
	White  *Record
	Black  *Record
}
