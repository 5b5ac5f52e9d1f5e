package app

import "blokus/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventGameStarted  EventKind = "game_started"
	EventPiecePlaced  EventKind = "piece_placed"
	EventTurnPassed   EventKind = "turn_passed"
	EventSeatFinished EventKind = "seat_finished"
	EventGameEnded    EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// SeatState is the per-seat view included in event payloads.
type SeatState struct {
	Seat            int                `json:"seat"`
	Name            string             `json:"name"`
	Color           string             `json:"color"`
	RemainingPieces []domain.PieceType `json:"remaining_pieces"`
	HasPassed       bool               `json:"has_passed"`
	Score           int                `json:"score"`
	Status          string             `json:"status"`
}

type GameStartedPayload struct {
	BoardSize       int           `json:"board_size"`
	StartingCorners []domain.Cell `json:"starting_corners"`
	FirstTurnSeat   int           `json:"first_turn_seat"`
	Seats           []SeatState   `json:"seats"`
}

type PiecePlacedPayload struct {
	Seat         int              `json:"seat"`
	Piece        domain.PieceType `json:"piece"`
	Orientation  int              `json:"orientation"`
	Row          int              `json:"row"`
	Col          int              `json:"col"`
	Cells        []domain.Cell    `json:"cells"`
	NextTurnSeat int              `json:"next_turn_seat"`
}

type TurnPassedPayload struct {
	Seat         int  `json:"seat"`
	Forced       bool `json:"forced"`
	NextTurnSeat int  `json:"next_turn_seat"`
}

type SeatFinishedPayload struct {
	Seat int `json:"seat"`
}

type GameEndedPayload struct {
	Scores         []int            `json:"scores"`
	Winners        []int            `json:"winners"`
	Rankings       []int            `json:"rankings"`
	BalanceChanges map[string]int64 `json:"balance_changes"`
}
