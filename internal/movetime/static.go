package movetime

// StaticGame is an in-memory Game, for callers that already hold the moves
// as plain values.
type StaticGame struct {
	Headers map[string]string
	Plies   []StaticPly
}

// StaticPly is one ply of a StaticGame.
type StaticPly struct {
	Side    Side
	SAN     string
	Comment string
}

func (g *StaticGame) Header(key string) (string, bool) {
	v, ok := g.Headers[key]
	return v, ok
}

func (g *StaticGame) Root() Node { return staticNode{game: g, next: 0} }

type staticNode struct {
	game *StaticGame
	next int
}

func (n staticNode) Next() (Ply, bool) {
	if n.next >= len(n.game.Plies) {
		return nil, false
	}
	return staticPly{staticNode: staticNode{game: n.game, next: n.next + 1}, ply: n.game.Plies[n.next]}, true
}

type staticPly struct {
	staticNode
	ply StaticPly
}

func (p staticPly) Side() Side         { return p.ply.Side }
func (p staticPly) SAN() string        { return p.ply.SAN }
func (p staticPly) Annotation() string { return p.ply.Comment }
