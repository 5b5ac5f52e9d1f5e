package bot

import (
	"math/rand"
	"testing"

	"blokus/internal/domain"
)

func newTestGame(t *testing.T) *domain.Game {
	t.Helper()
	players := []*domain.Player{
		domain.NewPlayer(0, "p0", "#3b82f6"),
		domain.NewPlayer(1, "p1", "#22c55e"),
	}
	return domain.NewGame(domain.NewBoard(domain.DuoBoardSize, nil), players, 0)
}

func applyMove(t *testing.T, g *domain.Game, seat int, m Move) {
	t.Helper()
	if m.Pass {
		if !g.Pass(seat) {
			t.Fatalf("pass rejected for seat %d", seat)
		}
		return
	}
	if !g.PlayMove(domain.Move{Seat: seat, Piece: m.Piece, Orientation: m.Orientation, Row: m.Row, Col: m.Col}) {
		t.Fatalf("bot move rejected: %+v", m)
	}
}

func TestRandomBotMovesAreLegal(t *testing.T) {
	g := newTestGame(t)
	b := NewRandomBot(rand.New(rand.NewSource(42)))

	for turns := 0; g.Status == domain.StatusInProgress && turns < 12; turns++ {
		seat := g.Current
		move, err := b.CalculateMove(g, seat)
		if err != nil {
			t.Fatalf("turn %d: %v", turns, err)
		}
		applyMove(t, g, seat, move)
	}
	if g.Board.OccupiedCount() == 0 {
		t.Fatal("random bot never placed a piece")
	}
}

func TestRandomBotPassesWithEmptyHand(t *testing.T) {
	g := newTestGame(t)
	g.PlayerAt(0).Remaining = map[domain.PieceType]bool{}

	move, err := NewRandomBot(rand.New(rand.NewSource(1))).CalculateMove(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Errorf("bot proposed %+v with an empty hand", move)
	}
}

func TestGreedyBotOpensWithPentomino(t *testing.T) {
	g := newTestGame(t)
	move, err := NewGreedyBot().CalculateMove(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("greedy bot passed on an open board")
	}
	if got := domain.PieceSize(move.Piece); got != 5 {
		t.Errorf("opening piece %s has size %d, want a pentomino", move.Piece, got)
	}
	applyMove(t, g, 0, move)
}

func TestScriptedBotPicksCandidate(t *testing.T) {
	tests := []struct {
		name   string
		script string
		check  func(t *testing.T, m Move, err error)
	}{
		{
			name:   "FirstCandidate",
			script: `return 1`,
			check: func(t *testing.T, m Move, err error) {
				if err != nil {
					t.Fatal(err)
				}
				if m.Pass {
					t.Error("script chose candidate 1 but bot passed")
				}
			},
		},
		{
			name: "LargestPiece",
			script: `
				local best, size = 1, 0
				for i, c in ipairs(candidates) do
					if c.size > size then best, size = i, c.size end
				end
				return best
			`,
			check: func(t *testing.T, m Move, err error) {
				if err != nil {
					t.Fatal(err)
				}
				if got := domain.PieceSize(m.Piece); got != 5 {
					t.Errorf("script picked size %d, want 5", got)
				}
			},
		},
		{
			name:   "ExplicitPass",
			script: `return 0`,
			check: func(t *testing.T, m Move, err error) {
				if err != nil {
					t.Fatal(err)
				}
				if !m.Pass {
					t.Error("script returned 0 but bot did not pass")
				}
			},
		},
		{
			name:   "OutOfRangeDegradesToPass",
			script: `return 99999`,
			check: func(t *testing.T, m Move, err error) {
				if err == nil {
					t.Error("out-of-range choice should error")
				}
				if !m.Pass {
					t.Error("failed script should degrade to a pass")
				}
			},
		},
		{
			name:   "BrokenScript",
			script: `this is not lua`,
			check: func(t *testing.T, m Move, err error) {
				if err == nil {
					t.Error("syntax error should surface")
				}
				if !m.Pass {
					t.Error("failed script should degrade to a pass")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			move, err := NewScriptedBot(tt.script).CalculateMove(g, 0)
			tt.check(t, move, err)
		})
	}
}

func TestNewBrainLevels(t *testing.T) {
	if _, err := NewBrain("easy"); err != nil {
		t.Errorf("easy: %v", err)
	}
	if _, err := NewBrain("hard"); err != nil {
		t.Errorf("hard: %v", err)
	}
	if _, err := NewBrain("psychic"); err == nil {
		t.Error("unknown difficulty accepted")
	}
}

func TestAgentFallsBackForUnknownUser(t *testing.T) {
	agent, err := NewAgent("nobody-in-pool")
	if err != nil {
		t.Fatal(err)
	}
	move, err := agent.PlayAtSeat(newTestGame(t), 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Error("fallback agent passed on an open board")
	}
}
