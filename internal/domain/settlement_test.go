package domain

import (
	"testing"
)

func TestCalculateSettlement(t *testing.T) {
	tests := []struct {
		name        string
		playerCount int
		// remainingByScoreOrder empties hands so seat i finishes in the
		// position given by keepPieces[i] pieces left.
		keepPieces []int
		baseBet    int64
		expected   map[int]int64
	}{
		{
			name:        "4 players: standard distribution",
			playerCount: 4,
			keepPieces:  []int{0, 1, 2, 3},
			baseBet:     100,
			expected:    map[int]int64{0: 200, 1: 100, 2: -100, 3: -200},
		},
		{
			name:        "3 players: standard distribution",
			playerCount: 3,
			keepPieces:  []int{2, 0, 1},
			baseBet:     100,
			expected:    map[int]int64{1: 300, 2: -100, 0: -200},
		},
		{
			name:        "2 players: heads up",
			playerCount: 2,
			keepPieces:  []int{1, 0},
			baseBet:     50,
			expected:    map[int]int64{1: 50, 0: -50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := make([]*Player, tt.playerCount)
			for i := range players {
				players[i] = NewPlayer(i, "", "")
				players[i].Remaining = map[PieceType]bool{}
				// Each kept monomino-sized piece costs a point, so fewer
				// kept pieces means a higher score.
				for k := 0; k < tt.keepPieces[i]; k++ {
					players[i].Remaining[AllPieceTypes[k]] = true
				}
			}
			g := NewGame(NewBoard(StandardBoardSize, nil), players, 0)

			settlement := g.CalculateSettlement(tt.baseBet)
			if len(settlement.BalanceChanges) != tt.playerCount {
				t.Fatalf("got %d changes, want %d", len(settlement.BalanceChanges), tt.playerCount)
			}
			for seat, want := range tt.expected {
				if got := settlement.BalanceChanges[seat]; got != want {
					t.Errorf("seat %d: got %d, want %d", seat, got, want)
				}
			}
		})
	}
}
