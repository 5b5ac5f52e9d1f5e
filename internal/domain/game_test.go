package domain

import (
	"encoding/json"
	"testing"
)

func newStandardGame(t *testing.T, players int) *Game {
	t.Helper()
	seats := make([]*Player, players)
	for i := range seats {
		seats[i] = NewPlayer(i, "", "")
	}
	return NewGame(NewBoard(StandardBoardSize, nil), seats, 0)
}

func TestFirstMoveMustCoverStartingCorner(t *testing.T) {
	g := newStandardGame(t, 2)

	if g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 5, Col: 5}) {
		t.Fatal("first move away from the starting corner accepted")
	}
	if len(g.MoveHistory) != 0 {
		t.Fatal("rejected move mutated history")
	}

	if !g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 0, Col: 0}) {
		t.Fatal("first move on the starting corner rejected")
	}
	if g.Board.IsEmpty(0, 0) {
		t.Fatal("accepted move left the starting corner empty")
	}
	if g.PlayerAt(0).Remaining[PieceI1] {
		t.Fatal("placed piece still in hand")
	}
}

func TestSecondMoveEdgeRuleApplies(t *testing.T) {
	g := newStandardGame(t, 2)

	if !g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 0, Col: 0}) {
		t.Fatal("setup: seat 0 first move failed")
	}
	if !g.PlayMove(Move{Seat: 1, Piece: PieceI1, Row: 0, Col: 19}) {
		t.Fatal("setup: seat 1 first move failed")
	}

	// Back on seat 0: (0,1) is edge-adjacent to its own (0,0).
	if g.PlayMove(Move{Seat: 0, Piece: PieceI2, Row: 0, Col: 1}) {
		t.Fatal("edge-adjacent second move accepted")
	}
	if !g.PlayMove(Move{Seat: 0, Piece: PieceI2, Row: 1, Col: 1}) {
		t.Fatal("diagonal second move rejected")
	}
}

func TestWrongSeatAndMissingPieceRejected(t *testing.T) {
	g := newStandardGame(t, 2)

	if g.PlayMove(Move{Seat: 1, Piece: PieceI1, Row: 0, Col: 19}) {
		t.Fatal("out-of-turn move accepted")
	}

	if !g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 0, Col: 0}) {
		t.Fatal("setup: first move failed")
	}
	if !g.PlayMove(Move{Seat: 1, Piece: PieceI1, Row: 0, Col: 19}) {
		t.Fatal("setup: seat 1 first move failed")
	}

	// Seat 0 already spent the monomino.
	if g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 1, Col: 1}) {
		t.Fatal("move with an already-placed piece accepted")
	}
}

func TestPlayMoveWrapsNegativeOrientation(t *testing.T) {
	g := newStandardGame(t, 2)

	// Orientation indices come straight off the wire, so a negative one
	// must settle the validation path like any other wrapped index.
	if g.PlayMove(Move{Seat: 0, Piece: PieceL3, Orientation: -1, Row: 5, Col: 5}) {
		t.Fatal("off-corner first move accepted")
	}
	if len(g.TurnHistory) != 0 {
		t.Fatal("rejected move mutated history")
	}

	want := GetOrientation(PieceL3, OrientationCount(PieceL3)-1)
	if !g.Board.IsValidPlacement(want, 0, 0, 0, true) {
		t.Fatal("setup: wrapped orientation does not cover the corner at (0,0)")
	}
	if !g.PlayMove(Move{Seat: 0, Piece: PieceL3, Orientation: -1, Row: 0, Col: 0}) {
		t.Fatal("corner-covering move with wrapped orientation rejected")
	}
}

func TestPassRejectedWhileMovesExist(t *testing.T) {
	g := newStandardGame(t, 2)

	if g.Pass(0) {
		t.Fatal("pass accepted while the seat still has legal moves")
	}
	if g.PlayerAt(0).HasPassed {
		t.Fatal("rejected pass mutated player state")
	}
	if len(g.TurnHistory) != 0 {
		t.Fatal("rejected pass appended to turn history")
	}
}

func TestTurnHistoryGrowsByOne(t *testing.T) {
	g := newStandardGame(t, 2)

	if got := len(g.TurnHistory); got != 0 {
		t.Fatalf("fresh game turn history = %d", got)
	}
	g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 0, Col: 0})
	if got := len(g.TurnHistory); got != 1 {
		t.Fatalf("after one move turn history = %d, want 1", got)
	}
	g.PlayMove(Move{Seat: 1, Piece: PieceI1, Row: 5, Col: 5}) // rejected
	if got := len(g.TurnHistory); got != 1 {
		t.Fatalf("rejected move grew turn history to %d", got)
	}
}

func TestResignAdvancesAndSticks(t *testing.T) {
	g := newStandardGame(t, 3)

	if !g.Resign(0) {
		t.Fatal("resign rejected for the acting seat")
	}
	if g.PlayerAt(0).Status != StatusPassed || !g.PlayerAt(0).HasPassed {
		t.Fatalf("resigned seat state: %v", g.PlayerAt(0).Status)
	}
	if g.Current != 1 {
		t.Fatalf("current seat after resign = %d, want 1", g.Current)
	}
	if g.Resign(0) {
		t.Fatal("second resign of the same seat accepted")
	}

	// Resigning a waiting seat must not move the turn.
	if !g.Resign(2) {
		t.Fatal("resign rejected for a waiting seat")
	}
	if g.Current != 1 {
		t.Fatalf("current seat moved to %d after off-turn resign", g.Current)
	}

	// The last active seat resigning ends the game.
	if !g.Resign(1) {
		t.Fatal("resign rejected for the last active seat")
	}
	if g.Status != StatusFinished {
		t.Fatalf("game status = %v, want finished", g.Status)
	}
}

func TestEmptyHandSeatSkippedAndFinished(t *testing.T) {
	g := newStandardGame(t, 3)
	g.PlayerAt(1).Remaining = map[PieceType]bool{}

	if !g.PlayMove(Move{Seat: 0, Piece: PieceI1, Row: 0, Col: 0}) {
		t.Fatal("setup: move failed")
	}

	if g.PlayerAt(1).Status != StatusDone {
		t.Errorf("seat 1 status = %s, want %s", g.PlayerAt(1).Status, StatusDone)
	}
	if g.Current != 2 {
		t.Errorf("current seat = %d, want 2", g.Current)
	}
}

func TestGameFinishesWhenNobodyCanMove(t *testing.T) {
	// A 3x3 board throttles both seats quickly; play greedily until the
	// engine declares the game over.
	board := NewBoard(3, []Cell{{0, 0}, {2, 2}})
	players := []*Player{NewPlayer(0, "", ""), NewPlayer(1, "", "")}
	g := NewGame(board, players, 0)

	for steps := 0; g.Status == StatusInProgress; steps++ {
		if steps > 50 {
			t.Fatal("game did not finish")
		}
		seat := g.Current
		moves := g.ValidMoves(seat)
		if len(moves) == 0 {
			if !g.Pass(seat) {
				t.Fatalf("pass rejected for seat %d with no legal moves", seat)
			}
			continue
		}
		if !g.PlayMove(moves[0]) {
			t.Fatalf("enumerated move rejected: %+v", moves[0])
		}
	}

	for _, p := range g.Players {
		if p.Status != StatusPassed && p.Status != StatusDone {
			t.Errorf("seat %d status = %s after game end", p.Seat, p.Status)
		}
	}

	winners := g.Winners()
	if len(winners) == 0 {
		t.Fatal("finished game has no winners")
	}
	best := g.Score(winners[0])
	for seat := range g.Players {
		if g.Score(seat) > best {
			t.Errorf("seat %d outscores a declared winner", seat)
		}
	}
}

func TestScoreBoundsAndBonuses(t *testing.T) {
	g := newStandardGame(t, 2)

	if got := g.Score(0); got != -TotalSquares {
		t.Errorf("fresh score = %d, want %d", got, -TotalSquares)
	}

	p := g.PlayerAt(0)
	p.Remaining = map[PieceType]bool{}
	p.LastPieceMonomino = false
	if got := g.Score(0); got != 15 {
		t.Errorf("all-placed score = %d, want 15", got)
	}
	p.LastPieceMonomino = true
	if got := g.Score(0); got != 20 {
		t.Errorf("monomino-last score = %d, want 20", got)
	}
}

func TestWinnersBeforeFinishPanics(t *testing.T) {
	g := newStandardGame(t, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("Winners on an in-progress game should panic")
		}
	}()
	g.Winners()
}

func TestRankingsShareTies(t *testing.T) {
	g := newStandardGame(t, 3)
	for _, seat := range []int{0, 1} {
		g.PlayerAt(seat).Remaining = map[PieceType]bool{}
	}

	ranks := g.Rankings()
	if ranks[0] != 0 || ranks[1] != 0 {
		t.Errorf("tied leaders ranked %d and %d, want 0 and 0", ranks[0], ranks[1])
	}
	if ranks[2] != 2 {
		t.Errorf("trailing seat ranked %d, want 2", ranks[2])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newStandardGame(t, 2)
	for _, m := range []Move{
		{Seat: 0, Piece: PieceL4, Row: 0, Col: 0},
		{Seat: 1, Piece: PieceT5, Orientation: 0, Row: 0, Col: 17},
		{Seat: 0, Piece: PieceI3, Row: 3, Col: 2},
	} {
		if !g.PlayMove(m) {
			t.Fatalf("setup move rejected: %+v", m)
		}
	}

	snap := g.Snapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	restored, err := Restore(decoded)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.Current != g.Current {
		t.Errorf("current seat = %d, want %d", restored.Current, g.Current)
	}
	for seat := range g.Players {
		if restored.Score(seat) != g.Score(seat) {
			t.Errorf("seat %d score = %d, want %d", seat, restored.Score(seat), g.Score(seat))
		}
	}
	if restored.HasAnyLegalMove(restored.Current) != g.HasAnyLegalMove(g.Current) {
		t.Error("legal-move availability changed across the round trip")
	}
	if restored.Board.String() != g.Board.String() {
		t.Error("board grid changed across the round trip")
	}
	if len(restored.MoveHistory) != len(g.MoveHistory) {
		t.Errorf("move history length = %d, want %d", len(restored.MoveHistory), len(g.MoveHistory))
	}
}

func TestRestoreRejectsMalformedSnapshots(t *testing.T) {
	good := newStandardGame(t, 2).Snapshot()

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"ZeroBoardSize", func(s *Snapshot) { s.BoardSize = 0 }},
		{"TruncatedGrid", func(s *Snapshot) { s.Grid = s.Grid[:5] }},
		{"NoPlayers", func(s *Snapshot) { s.Players = nil }},
		{"CurrentOutOfRange", func(s *Snapshot) { s.Current = 7 }},
		{"UnknownPiece", func(s *Snapshot) { s.Players[0].Remaining = []PieceType{"Q9"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := good
			snap.Grid = append([][]int8(nil), good.Grid...)
			snap.Players = append([]PlayerSnapshot(nil), good.Players...)
			tt.mutate(&snap)
			if _, err := Restore(snap); err == nil {
				t.Error("Restore accepted a malformed snapshot")
			}
		})
	}
}
