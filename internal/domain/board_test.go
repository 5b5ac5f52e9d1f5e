package domain

import (
	"testing"
)

func TestStartingCornersForSize(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []Cell
	}{
		{
			name: "Standard20",
			size: 20,
			want: []Cell{{0, 0}, {0, 19}, {19, 19}, {19, 0}},
		},
		{
			name: "Duo14",
			size: 14,
			want: []Cell{{4, 4}, {9, 9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartingCornersForSize(tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("corner count = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("corner %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoundsAndOwnership(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)

	if !b.InBounds(0, 0) || !b.InBounds(19, 19) {
		t.Error("board corners should be in bounds")
	}
	if b.InBounds(-1, 0) || b.InBounds(0, 20) {
		t.Error("cells outside the grid should be out of bounds")
	}
	if b.IsEmpty(-1, 5) {
		t.Error("out-of-bounds cells must not report empty")
	}

	b.Place(GetOrientation(PieceI1, 0), 0, 0, 2)
	if b.IsEmpty(0, 0) {
		t.Error("placed cell still reports empty")
	}
	seat, ok := b.Owner(0, 0)
	if !ok || seat != 2 {
		t.Errorf("Owner(0,0) = %d,%v, want 2,true", seat, ok)
	}
	if _, ok := b.Owner(1, 1); ok {
		t.Error("empty cell reports an owner")
	}
}

func TestFirstMoveGate(t *testing.T) {
	// A first move that does not cover the starting corner must be
	// rejected for every piece type and orientation.
	b := NewBoard(StandardBoardSize, nil)
	for _, pt := range AllPieceTypes {
		for _, o := range Orientations(pt) {
			if b.IsValidPlacement(o, 5, 5, 0, true) {
				t.Errorf("%s orientation %d accepted at (5,5) on first move", pt, o.Index)
			}
			if !b.IsValidPlacement(o, 0, 0, 0, true) {
				// Anchor (0,0) only covers the corner when the
				// orientation includes offset (0,0).
				covers := false
				for _, c := range o.Cells {
					if c == (Cell{0, 0}) {
						covers = true
					}
				}
				if covers {
					t.Errorf("%s orientation %d rejected at the starting corner", pt, o.Index)
				}
			}
		}
	}
}

func TestEdgeContactRejected(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)
	b.Place(GetOrientation(PieceI1, 0), 0, 0, 0)

	// (0,1) is edge-adjacent to the player's own (0,0).
	if b.IsValidPlacement(GetOrientation(PieceI1, 0), 0, 1, 0, false) {
		t.Error("edge-adjacent placement accepted")
	}
	// (1,1) touches (0,0) only diagonally.
	if !b.IsValidPlacement(GetOrientation(PieceI1, 0), 1, 1, 0, false) {
		t.Error("corner-contact placement rejected")
	}
	// No contact at all.
	if b.IsValidPlacement(GetOrientation(PieceI1, 0), 5, 5, 0, false) {
		t.Error("floating placement accepted")
	}
}

func TestOpponentEdgeContactAllowed(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)
	b.Place(GetOrientation(PieceI1, 0), 0, 0, 0)
	b.Place(GetOrientation(PieceI1, 0), 1, 1, 0)

	// Seat 1 may sit edge-adjacent to seat 0's cells; the edge rule only
	// applies to a player's own color.
	b.SetCell(0, 2, 2) // seat 1 cell planted directly
	if !b.IsValidPlacement(GetOrientation(PieceI1, 0), 1, 3, 1, false) {
		t.Error("placement diagonally touching own cell rejected despite opponent adjacency")
	}
}

func TestCornerAndEdgeSetsDisjoint(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)
	b.Place(GetOrientation(PieceL4, 0), 0, 0, 0)
	b.Place(GetOrientation(PieceI3, 0), 4, 4, 0)
	b.Place(GetOrientation(PieceI1, 0), 19, 19, 1)

	for seat := 0; seat < 2; seat++ {
		corners := b.CornerCandidates(seat)
		edges := b.EdgeAdjacent(seat)
		for c := range corners {
			if edges[c] {
				t.Errorf("seat %d: cell %v in both corner and edge sets", seat, c)
			}
		}
	}
}

func TestCornerCandidatesBeforeFirstPlacement(t *testing.T) {
	b := NewBoard(DuoBoardSize, nil)
	corners := b.CornerCandidates(1)
	if len(corners) != 1 || !corners[Cell{9, 9}] {
		t.Errorf("fresh seat corner candidates = %v, want just (9,9)", corners)
	}
}

func TestPlaceRejectsOverlapLoudly(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)
	b.Place(GetOrientation(PieceO4, 0), 0, 0, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("placing onto occupied cells should panic")
		}
	}()
	b.Place(GetOrientation(PieceI2, 0), 0, 0, 1)
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(StandardBoardSize, nil)
	b.Place(GetOrientation(PieceI2, 0), 0, 0, 0)

	clone := b.Clone()
	clone.Place(GetOrientation(PieceI1, 0), 10, 10, 1)

	if !b.IsEmpty(10, 10) {
		t.Error("mutating the clone changed the original board")
	}
	if clone.IsEmpty(0, 0) {
		t.Error("clone lost the original placements")
	}
}
