package bot

import (
	"math"
	"sort"

	"blokus/internal/domain"
)

// GreedyBot plays the highest-scoring legal move under a one-ply
// weighted ranking: big pieces first, then moves that grow the corner
// frontier, with a mild pull toward the board center. No search beyond
// that single ply.
type GreedyBot struct {
	Weights Weights
}

// NewGreedyBot creates a GreedyBot with the default tuning.
func NewGreedyBot() *GreedyBot {
	return &GreedyBot{Weights: DefaultWeights}
}

func (b *GreedyBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	moves := game.ValidMoves(seat)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	type scored struct {
		move  domain.Move
		score float64
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		ranked[i] = scored{move: m, score: b.scoreMove(game, m)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return placement(ranked[0].move), nil
}

func (b *GreedyBot) scoreMove(game *domain.Game, m domain.Move) float64 {
	o := domain.GetOrientation(m.Piece, m.Orientation)
	score := b.Weights.PieceSizeWeight * float64(o.Size())

	if b.Weights.CornerGainWeight != 0 {
		before := len(game.Board.CornerCandidates(m.Seat))
		probe := game.Board.Clone()
		probe.Place(o, m.Row, m.Col, m.Seat)
		after := len(probe.CornerCandidates(m.Seat))
		score += b.Weights.CornerGainWeight * float64(after-before)
	}

	if b.Weights.CenterWeight != 0 {
		center := float64(game.Board.Size()-1) / 2
		var distance float64
		for _, c := range o.Translate(m.Row, m.Col) {
			distance += math.Abs(float64(c.Row)-center) + math.Abs(float64(c.Col)-center)
		}
		score -= b.Weights.CenterWeight * distance / float64(o.Size())
	}

	return score
}
