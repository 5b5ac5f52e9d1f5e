package bot

import (
	"math/rand"

	"blokus/internal/domain"
)

// RandomBot selects uniformly from the seat's legal moves. It is the
// baseline opponent and the reference for "enumerate and pick one".
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot creates a RandomBot with the given rng, or an unseeded
// default when nil.
func NewRandomBot(rng *rand.Rand) *RandomBot {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &RandomBot{rng: rng}
}

func (b *RandomBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	moves := game.ValidMoves(seat)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}
	return placement(moves[b.rng.Intn(len(moves))]), nil
}
