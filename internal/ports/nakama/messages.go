package nakama

import "blokus/internal/domain"

// Client request payloads. All match messages are JSON-encoded.

// StartGameRequest is sent by the lobby owner to begin a game.
type StartGameRequest struct {
	// Mode selects the board: "duo" for the compact two-player board,
	// empty for the configured default.
	Mode string `json:"mode,omitempty"`
	// Tier selects the bet tier; empty uses the configured default.
	Tier string `json:"tier,omitempty"`
}

// PlacePieceRequest is one attempted placement by the acting player.
type PlacePieceRequest struct {
	Piece       domain.PieceType `json:"piece"`
	Orientation int              `json:"orientation"`
	Row         int              `json:"row"`
	Col         int              `json:"col"`
}

// Server event payloads.

// PlayerState is the per-seat lobby view included in state snapshots.
type PlayerState struct {
	UserID           string `json:"user_id"`
	Seat             int    `json:"seat"`
	IsOwner          bool   `json:"is_owner"`
	PiecesRemaining  int    `json:"pieces_remaining"`
	SquaresRemaining int    `json:"squares_remaining"`
	DisplayName      string `json:"display_name"`
}

// MatchStateSnapshot is broadcast whenever lobby membership changes.
type MatchStateSnapshot struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Tick      int64         `json:"tick"`
	Players   []PlayerState `json:"players"`
}

// GameErrorEvent is sent privately to a player whose request was rejected.
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchLabel is the indexed JSON label for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	State string `json:"state"`
	Game  string `json:"game"`
	Mode  string `json:"mode,omitempty"`
}
