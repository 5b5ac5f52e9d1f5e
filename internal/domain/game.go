package domain

import "fmt"

// GameStatus is the lifecycle stage of a game.
type GameStatus string

const (
	// StatusInProgress is the active state where pieces are placed.
	StatusInProgress GameStatus = "in_progress"
	// StatusFinished is the terminal state after every seat passed or finished.
	StatusFinished GameStatus = "finished"
)

// PlayerStatus is the per-seat state within a game. Passed and Finished
// are sticky for the remainder of the game.
type PlayerStatus string

const (
	StatusWaiting PlayerStatus = "waiting"
	StatusActing  PlayerStatus = "acting"
	StatusPassed  PlayerStatus = "passed"
	StatusDone    PlayerStatus = "finished"
)

// Player holds the state for one seat.
type Player struct {
	Seat  int
	Name  string
	Color string

	Remaining         map[PieceType]bool
	HasPassed         bool
	LastPieceMonomino bool
	Status            PlayerStatus
}

// NewPlayer creates a seat with the full 21-piece inventory.
func NewPlayer(seat int, name, color string) *Player {
	remaining := make(map[PieceType]bool, NumPieceTypes)
	for _, pt := range AllPieceTypes {
		remaining[pt] = true
	}
	return &Player{
		Seat:      seat,
		Name:      name,
		Color:     color,
		Remaining: remaining,
		Status:    StatusWaiting,
	}
}

// PieceCount returns the number of pieces still in hand.
func (p *Player) PieceCount() int {
	return len(p.Remaining)
}

// SquaresRemaining returns the total squares across remaining pieces.
func (p *Player) SquaresRemaining() int {
	total := 0
	for pt := range p.Remaining {
		total += PieceSize(pt)
	}
	return total
}

// Move records one accepted placement: the seat, the piece, the chosen
// orientation index, and the top-left anchor it was translated by.
type Move struct {
	Seat        int       `json:"seat"`
	Piece       PieceType `json:"piece"`
	Orientation int       `json:"orientation"`
	Row         int       `json:"row"`
	Col         int       `json:"col"`
}

// Game drives the turn state machine over a board and an ordered list of
// seats. It is synchronous and single-threaded; hosts must not invoke
// mutating calls concurrently against the same instance.
type Game struct {
	Board   *Board
	Players []*Player
	Current int
	Status  GameStatus

	// MoveHistory is append-only; one record per accepted placement.
	MoveHistory []Move
	// TurnHistory records the acting seat for every accepted move or pass.
	TurnHistory []int
}

// NewGame creates a game over the given board with the given seats acting
// in order, starting at startingSeat.
func NewGame(board *Board, players []*Player, startingSeat int) *Game {
	if len(players) == 0 {
		panic("game needs at least one player")
	}
	if startingSeat < 0 || startingSeat >= len(players) {
		panic(fmt.Sprintf("starting seat %d out of range 0..%d", startingSeat, len(players)-1))
	}
	g := &Game{
		Board:   board,
		Players: players,
		Current: startingSeat,
		Status:  StatusInProgress,
	}
	players[startingSeat].Status = StatusActing
	return g
}

// CurrentPlayer returns the seat whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// PlayerAt returns the player at a seat index, panicking when the index
// is out of range: that is a host bug, not a game outcome.
func (g *Game) PlayerAt(seat int) *Player {
	if seat < 0 || seat >= len(g.Players) {
		panic(fmt.Sprintf("seat %d out of range 0..%d", seat, len(g.Players)-1))
	}
	return g.Players[seat]
}

// IsFirstMove reports whether the seat has never placed a piece. The full
// inventory is a cheap proxy: placing any piece removes exactly one type.
func (g *Game) IsFirstMove(seat int) bool {
	return g.PlayerAt(seat).PieceCount() == NumPieceTypes
}

// HasAnyLegalMove reports whether the seat can place any remaining piece
// anywhere. Every orientation of every remaining piece is anchored so
// that each of its cells covers a corner candidate in turn; the first
// valid placement short-circuits. This is the engine's most expensive
// query and is invoked once per turn per pass candidate.
func (g *Game) HasAnyLegalMove(seat int) bool {
	p := g.PlayerAt(seat)
	first := g.IsFirstMove(seat)
	corners := g.Board.CornerCandidates(seat)

	for pt := range p.Remaining {
		for _, o := range Orientations(pt) {
			for corner := range corners {
				for _, offset := range o.Cells {
					row := corner.Row - offset.Row
					col := corner.Col - offset.Col
					if g.Board.IsValidPlacement(o, row, col, seat, first) {
						return true
					}
				}
			}
		}
	}
	return false
}

// PlayMove validates and applies a placement for the current turn.
// It returns false with no state change when the seat is not acting, the
// piece is not in the seat's hand, or the placement violates the rules.
// On success the board is mutated, the piece leaves the hand, the move is
// recorded and the turn advances.
func (g *Game) PlayMove(m Move) bool {
	g.mustBeInProgress()

	if m.Seat != g.Current {
		return false
	}
	p := g.PlayerAt(m.Seat)
	if !p.Remaining[m.Piece] {
		return false
	}

	o := GetOrientation(m.Piece, m.Orientation)
	if !g.Board.IsValidPlacement(o, m.Row, m.Col, m.Seat, g.IsFirstMove(m.Seat)) {
		return false
	}

	g.Board.Place(o, m.Row, m.Col, m.Seat)
	delete(p.Remaining, m.Piece)
	p.LastPieceMonomino = m.Piece == PieceI1

	g.MoveHistory = append(g.MoveHistory, m)
	g.TurnHistory = append(g.TurnHistory, m.Seat)
	g.advanceTurn()
	return true
}

// Pass marks the current seat as passed. A seat holding a legal move may
// never pass; such an attempt returns false with no state change.
func (g *Game) Pass(seat int) bool {
	g.mustBeInProgress()

	if seat != g.Current {
		return false
	}
	if g.HasAnyLegalMove(seat) {
		return false
	}

	p := g.PlayerAt(seat)
	p.HasPassed = true
	p.Status = StatusPassed

	g.TurnHistory = append(g.TurnHistory, seat)
	g.advanceTurn()
	return true
}

// Resign marks a seat as permanently out of the game, regardless of
// whether it still holds legal moves. The seat keeps its remaining
// inventory for scoring. Returns false for seats already passed or done.
func (g *Game) Resign(seat int) bool {
	g.mustBeInProgress()

	p := g.PlayerAt(seat)
	if p.Status == StatusPassed || p.Status == StatusDone {
		return false
	}

	p.HasPassed = true
	p.Status = StatusPassed

	if seat == g.Current {
		g.TurnHistory = append(g.TurnHistory, seat)
		g.advanceTurn()
	}
	return true
}

// advanceTurn scans seats in order from the next one, wrapping once.
// Passed and finished seats are skipped; a seat with an empty hand is
// marked finished, a seat with no legal move is marked passed. The first
// eligible seat becomes current. A full wrap with no eligible seat ends
// the game.
func (g *Game) advanceTurn() {
	prev := g.CurrentPlayer()
	if prev.Status == StatusActing {
		prev.Status = StatusWaiting
	}

	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (g.Current + i) % n
		p := g.Players[seat]

		if p.Status == StatusPassed || p.Status == StatusDone {
			continue
		}
		if p.PieceCount() == 0 {
			p.Status = StatusDone
			continue
		}
		if !g.HasAnyLegalMove(seat) {
			p.HasPassed = true
			p.Status = StatusPassed
			continue
		}

		g.Current = seat
		p.Status = StatusActing
		return
	}

	g.Status = StatusFinished
}

// Score computes the seat's score from current inventory: minus one per
// remaining square, +15 when every piece is placed, a further +5 when the
// last placed piece was the monomino. Always computed, never cached.
func (g *Game) Score(seat int) int {
	p := g.PlayerAt(seat)
	score := -p.SquaresRemaining()
	if p.PieceCount() == 0 {
		score += 15
		if p.LastPieceMonomino {
			score += 5
		}
	}
	return score
}

// Scores returns every seat's score in seat order.
func (g *Game) Scores() []int {
	scores := make([]int, len(g.Players))
	for i := range g.Players {
		scores[i] = g.Score(i)
	}
	return scores
}

// Winners returns the seats holding the maximum score. It is only
// meaningful once the game is finished; calling it earlier is a host bug.
func (g *Game) Winners() []int {
	if g.Status != StatusFinished {
		panic("winners queried before the game finished")
	}
	scores := g.Scores()
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var winners []int
	for seat, s := range scores {
		if s == max {
			winners = append(winners, seat)
		}
	}
	return winners
}

// Rankings returns each seat's rank, 0 meaning first place. Seats with
// equal scores share a rank.
func (g *Game) Rankings() []int {
	scores := g.Scores()
	ranks := make([]int, len(scores))
	for seat, s := range scores {
		rank := 0
		for _, other := range scores {
			if other > s {
				rank++
			}
		}
		ranks[seat] = rank
	}
	return ranks
}

func (g *Game) mustBeInProgress() {
	if g.Status != StatusInProgress {
		panic("mutating call on a finished game")
	}
}
