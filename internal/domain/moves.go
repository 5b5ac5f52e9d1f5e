package domain

// ValidPlacements returns every anchor at which the orientation can be
// legally placed for the seat. Anchors are generated by aligning each
// cell of the orientation with each corner candidate, so the search space
// stays proportional to the seat's frontier rather than the whole board.
func ValidPlacements(b *Board, o Orientation, seat int, firstMove bool) []Cell {
	seen := make(map[Cell]bool)
	var out []Cell

	for corner := range b.CornerCandidates(seat) {
		for _, offset := range o.Cells {
			anchor := Cell{Row: corner.Row - offset.Row, Col: corner.Col - offset.Col}
			if seen[anchor] {
				continue
			}
			seen[anchor] = true
			if b.IsValidPlacement(o, anchor.Row, anchor.Col, seat, firstMove) {
				out = append(out, anchor)
			}
		}
	}
	return out
}

// ValidMoves enumerates every legal move for the seat across its
// remaining pieces and all their orientations. Iteration follows catalog
// order so the result is deterministic for a given board state.
func (g *Game) ValidMoves(seat int) []Move {
	p := g.PlayerAt(seat)
	first := g.IsFirstMove(seat)

	var moves []Move
	for _, pt := range AllPieceTypes {
		if !p.Remaining[pt] {
			continue
		}
		for _, o := range Orientations(pt) {
			for _, anchor := range ValidPlacements(g.Board, o, seat, first) {
				moves = append(moves, Move{
					Seat:        seat,
					Piece:       pt,
					Orientation: o.Index,
					Row:         anchor.Row,
					Col:         anchor.Col,
				})
			}
		}
	}
	return moves
}
