package bot

import (
	"blokus/internal/domain"
)

// Move is the decision returned by a strategy: a concrete placement or
// an explicit pass.
type Move struct {
	Pass        bool
	Piece       domain.PieceType
	Orientation int
	Row         int
	Col         int
}

// Brain is the interface all bot strategies implement. Strategies only
// read the game through its query surface; the caller feeds the result
// to exactly one PlayMove or Pass call per turn.
type Brain interface {
	CalculateMove(game *domain.Game, seat int) (Move, error)
}

// placement converts an enumerated legal move into the bot result type.
func placement(m domain.Move) Move {
	return Move{
		Piece:       m.Piece,
		Orientation: m.Orientation,
		Row:         m.Row,
		Col:         m.Col,
	}
}
