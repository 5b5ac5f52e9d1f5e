package domain

import (
	"testing"
)

func TestValidPlacementsFirstMoveCoverStart(t *testing.T) {
	b := NewBoard(DuoBoardSize, nil)
	start := b.StartingCorner(0)

	for _, pt := range []PieceType{PieceI1, PieceL3, PieceF, PieceI5} {
		for _, o := range Orientations(pt) {
			anchors := ValidPlacements(b, o, 0, true)
			if len(anchors) != len(o.Cells) {
				t.Errorf("%s orientation %d: %d anchors, want %d (one per aligning cell)",
					pt, o.Index, len(anchors), len(o.Cells))
			}
			for _, a := range anchors {
				covers := false
				for _, c := range o.Translate(a.Row, a.Col) {
					if c == start {
						covers = true
					}
				}
				if !covers {
					t.Errorf("%s orientation %d anchor %v does not cover %v", pt, o.Index, a, start)
				}
			}
		}
	}
}

func TestValidMovesMatchHasAnyLegalMove(t *testing.T) {
	g := newStandardGame(t, 2)

	if !g.HasAnyLegalMove(0) {
		t.Fatal("fresh seat reports no legal moves")
	}
	moves := g.ValidMoves(0)
	if len(moves) == 0 {
		t.Fatal("fresh seat enumerates no moves")
	}

	// Every enumerated move must be accepted by the validator.
	first := g.IsFirstMove(0)
	for _, m := range moves {
		o := GetOrientation(m.Piece, m.Orientation)
		if !g.Board.IsValidPlacement(o, m.Row, m.Col, 0, first) {
			t.Fatalf("enumerated move fails validation: %+v", m)
		}
	}

	// A crowded seat with an empty hand enumerates nothing.
	g.PlayerAt(1).Remaining = map[PieceType]bool{}
	if got := g.ValidMoves(1); len(got) != 0 {
		t.Errorf("empty hand enumerated %d moves", len(got))
	}
	if g.HasAnyLegalMove(1) {
		t.Error("empty hand reports a legal move")
	}
}
