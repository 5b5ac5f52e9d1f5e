package domain

import (
	"fmt"
	"sort"
)

// PlayerSnapshot is the serializable state of one seat.
type PlayerSnapshot struct {
	Seat              int          `json:"seat"`
	Name              string       `json:"name"`
	Color             string       `json:"color"`
	Remaining         []PieceType  `json:"remaining_pieces"`
	HasPassed         bool         `json:"has_passed"`
	LastPieceMonomino bool         `json:"last_piece_monomino"`
	Status            PlayerStatus `json:"status"`
}

// Snapshot is the complete serializable state of a game. A host that
// persists this tuple can rebuild an identical engine with Restore; the
// engine keeps no hidden state beyond it.
type Snapshot struct {
	BoardSize       int              `json:"board_size"`
	StartingCorners []Cell           `json:"starting_corners"`
	Grid            [][]int8         `json:"grid"`
	Players         []PlayerSnapshot `json:"players"`
	Current         int              `json:"current"`
	Status          GameStatus       `json:"status"`
	MoveHistory     []Move           `json:"move_history"`
	TurnHistory     []int            `json:"turn_history"`
}

// Snapshot captures the full game state.
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(g.Players))
	for i, p := range g.Players {
		remaining := make([]PieceType, 0, len(p.Remaining))
		for pt := range p.Remaining {
			remaining = append(remaining, pt)
		}
		sort.Slice(remaining, func(a, b int) bool { return remaining[a] < remaining[b] })
		players[i] = PlayerSnapshot{
			Seat:              p.Seat,
			Name:              p.Name,
			Color:             p.Color,
			Remaining:         remaining,
			HasPassed:         p.HasPassed,
			LastPieceMonomino: p.LastPieceMonomino,
			Status:            p.Status,
		}
	}

	return Snapshot{
		BoardSize:       g.Board.Size(),
		StartingCorners: g.Board.StartingCorners(),
		Grid:            g.Board.Grid(),
		Players:         players,
		Current:         g.Current,
		Status:          g.Status,
		MoveHistory:     append([]Move(nil), g.MoveHistory...),
		TurnHistory:     append([]int(nil), g.TurnHistory...),
	}
}

// Restore rebuilds a game from a snapshot. Snapshots cross the host
// serialization boundary, so malformed input is reported as an error
// rather than treated as a programmer bug.
func Restore(s Snapshot) (*Game, error) {
	if s.BoardSize <= 0 {
		return nil, fmt.Errorf("invalid board size %d", s.BoardSize)
	}
	if len(s.Grid) != s.BoardSize {
		return nil, fmt.Errorf("grid has %d rows, want %d", len(s.Grid), s.BoardSize)
	}
	if len(s.Players) == 0 {
		return nil, fmt.Errorf("snapshot has no players")
	}
	if s.Current < 0 || s.Current >= len(s.Players) {
		return nil, fmt.Errorf("current seat %d out of range 0..%d", s.Current, len(s.Players)-1)
	}

	board := NewBoard(s.BoardSize, append([]Cell(nil), s.StartingCorners...))
	for r, row := range s.Grid {
		if len(row) != s.BoardSize {
			return nil, fmt.Errorf("grid row %d has %d cells, want %d", r, len(row), s.BoardSize)
		}
		for c, v := range row {
			if v < 0 || int(v) > len(s.Players) {
				return nil, fmt.Errorf("grid cell (%d,%d) holds invalid owner %d", r, c, v)
			}
			board.SetCell(r, c, v)
		}
	}

	players := make([]*Player, len(s.Players))
	for i, ps := range s.Players {
		remaining := make(map[PieceType]bool, len(ps.Remaining))
		for _, pt := range ps.Remaining {
			if !ValidPieceType(pt) {
				return nil, fmt.Errorf("seat %d holds unknown piece %q", i, pt)
			}
			remaining[pt] = true
		}
		players[i] = &Player{
			Seat:              ps.Seat,
			Name:              ps.Name,
			Color:             ps.Color,
			Remaining:         remaining,
			HasPassed:         ps.HasPassed,
			LastPieceMonomino: ps.LastPieceMonomino,
			Status:            ps.Status,
		}
	}

	status := s.Status
	if status == "" {
		status = StatusInProgress
	}

	return &Game{
		Board:       board,
		Players:     players,
		Current:     s.Current,
		Status:      status,
		MoveHistory: append([]Move(nil), s.MoveHistory...),
		TurnHistory: append([]int(nil), s.TurnHistory...),
	}, nil
}
