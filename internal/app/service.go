package app

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"blokus/internal/domain"
)

// Service contains Blokus use-cases operating on domain state. It sits
// between a transport (the Nakama match handler) and the engine: all
// asynchrony and messaging live outside, every call here is synchronous.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotPlaying       = errors.New("game not in progress")
	ErrTooFewPlayers    = errors.New("not enough players to start")
	ErrTooManyPlayers   = errors.New("too many players for the board")
	ErrNotYourTurn      = errors.New("not this seat's turn")
	ErrUnknownPiece     = errors.New("piece is not in the catalog")
	ErrPieceNotHeld     = errors.New("piece is no longer in hand")
	ErrIllegalPlacement = errors.New("placement violates the rules")
	ErrMustPlay         = errors.New("a legal move exists, passing is not allowed")
)

// defaultSeatColors are the fixed per-seat colors.
var defaultSeatColors = []string{
	"#3b82f6", // blue
	"#22c55e", // green
	"#eab308", // yellow
	"#ef4444", // red
}

// GameModeDuo selects the compact 14x14 two-player board.
const GameModeDuo = "duo"

// StartGame builds a fresh engine for the given seat names in order.
// Mode "duo" with exactly two players uses the compact board; everything
// else plays on the standard 20x20. startingSeat below zero picks a
// random starting seat.
func (s *Service) StartGame(names []string, mode string, startingSeat int) (*domain.Game, []Event, error) {
	if len(names) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	if len(names) > MaxPlayers {
		return nil, nil, ErrTooManyPlayers
	}

	size := domain.StandardBoardSize
	if mode == GameModeDuo && len(names) == 2 {
		size = domain.DuoBoardSize
	}

	players := make([]*domain.Player, len(names))
	for i, name := range names {
		players[i] = domain.NewPlayer(i, name, defaultSeatColors[i%len(defaultSeatColors)])
	}

	if startingSeat < 0 {
		startingSeat = s.rng.Intn(len(players))
	}

	game := domain.NewGame(domain.NewBoard(size, nil), players, startingSeat)

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			BoardSize:       size,
			StartingCorners: game.Board.StartingCorners(),
			FirstTurnSeat:   game.Current,
			Seats:           seatStates(game),
		},
	}}
	return game, events, nil
}

// PlacePiece validates and applies one placement for the acting seat,
// emitting the resulting events. Rule rejections come back as sentinel
// errors with no state change.
func (s *Service) PlacePiece(game *domain.Game, seat int, piece domain.PieceType, orientation, row, col int) ([]Event, error) {
	if game.Status != domain.StatusInProgress {
		return nil, ErrNotPlaying
	}
	if seat != game.Current {
		return nil, ErrNotYourTurn
	}
	if !domain.ValidPieceType(piece) {
		return nil, ErrUnknownPiece
	}
	if !game.PlayerAt(seat).Remaining[piece] {
		return nil, ErrPieceNotHeld
	}

	passedBefore := passedSeats(game)

	move := domain.Move{Seat: seat, Piece: piece, Orientation: orientation, Row: row, Col: col}
	if !game.PlayMove(move) {
		return nil, ErrIllegalPlacement
	}

	o := domain.GetOrientation(piece, orientation)
	events := []Event{{
		Kind: EventPiecePlaced,
		Payload: PiecePlacedPayload{
			Seat:         seat,
			Piece:        piece,
			Orientation:  o.Index,
			Row:          row,
			Col:          col,
			Cells:        o.Translate(row, col),
			NextTurnSeat: game.Current,
		},
	}}

	if game.PlayerAt(seat).PieceCount() == 0 {
		events = append(events, Event{
			Kind:    EventSeatFinished,
			Payload: SeatFinishedPayload{Seat: seat},
		})
	}

	events = append(events, s.forcedPassEvents(game, passedBefore, seat)...)
	events = append(events, s.maybeEndEvents(game)...)
	return events, nil
}

// PassTurn marks the acting seat as passed. A seat holding a legal move
// may never pass.
func (s *Service) PassTurn(game *domain.Game, seat int) ([]Event, error) {
	if game.Status != domain.StatusInProgress {
		return nil, ErrNotPlaying
	}
	if seat != game.Current {
		return nil, ErrNotYourTurn
	}

	passedBefore := passedSeats(game)

	if !game.Pass(seat) {
		return nil, ErrMustPlay
	}

	events := []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			Seat:         seat,
			NextTurnSeat: game.Current,
		},
	}}
	events = append(events, s.forcedPassEvents(game, passedBefore, seat)...)
	events = append(events, s.maybeEndEvents(game)...)
	return events, nil
}

// ResignSeat removes a seat from play regardless of its legal moves,
// for players who leave mid-game. The seat keeps its inventory for
// scoring.
func (s *Service) ResignSeat(game *domain.Game, seat int) ([]Event, error) {
	if game.Status != domain.StatusInProgress {
		return nil, ErrNotPlaying
	}

	passedBefore := passedSeats(game)

	if !game.Resign(seat) {
		// Already passed or finished; nothing to announce.
		return nil, nil
	}

	events := []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			Seat:         seat,
			Forced:       true,
			NextTurnSeat: game.Current,
		},
	}}
	events = append(events, s.forcedPassEvents(game, passedBefore, seat)...)
	events = append(events, s.maybeEndEvents(game)...)
	return events, nil
}

// NewRound rebuilds a fresh game keeping the current seats, board size
// and corner layout; the seat after the previous starter opens.
func (s *Service) NewRound(game *domain.Game) (*domain.Game, []Event, error) {
	names := make([]string, len(game.Players))
	for i, p := range game.Players {
		names[i] = p.Name
	}

	mode := ""
	if game.Board.Size() == domain.DuoBoardSize {
		mode = GameModeDuo
	}

	var starter int
	if len(game.TurnHistory) > 0 {
		starter = (game.TurnHistory[0] + 1) % len(game.Players)
	}
	return s.StartGame(names, mode, starter)
}

// forcedPassEvents reports seats the turn scan auto-passed during the
// last mutation, so clients can show the skip.
func (s *Service) forcedPassEvents(game *domain.Game, passedBefore map[int]bool, actor int) []Event {
	var events []Event
	for seat, p := range game.Players {
		if seat == actor || !p.HasPassed || passedBefore[seat] {
			continue
		}
		events = append(events, Event{
			Kind: EventTurnPassed,
			Payload: TurnPassedPayload{
				Seat:         seat,
				Forced:       true,
				NextTurnSeat: game.Current,
			},
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Payload.(TurnPassedPayload).Seat < events[j].Payload.(TurnPassedPayload).Seat
	})
	return events
}

func (s *Service) maybeEndEvents(game *domain.Game) []Event {
	if game.Status != domain.StatusFinished {
		return nil
	}
	return []Event{{
		Kind: EventGameEnded,
		Payload: GameEndedPayload{
			Scores:   game.Scores(),
			Winners:  game.Winners(),
			Rankings: game.Rankings(),
		},
	}}
}

func passedSeats(game *domain.Game) map[int]bool {
	passed := make(map[int]bool, len(game.Players))
	for seat, p := range game.Players {
		passed[seat] = p.HasPassed
	}
	return passed
}

func seatStates(game *domain.Game) []SeatState {
	states := make([]SeatState, len(game.Players))
	for i, p := range game.Players {
		remaining := make([]domain.PieceType, 0, len(p.Remaining))
		for pt := range p.Remaining {
			remaining = append(remaining, pt)
		}
		sort.Slice(remaining, func(a, b int) bool { return remaining[a] < remaining[b] })
		states[i] = SeatState{
			Seat:            p.Seat,
			Name:            p.Name,
			Color:           p.Color,
			RemainingPieces: remaining,
			HasPassed:       p.HasPassed,
			Score:           game.Score(i),
			Status:          string(p.Status),
		}
	}
	return states
}
