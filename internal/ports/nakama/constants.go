package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameBlokus is the authoritative match handler name registered with Nakama.
	MatchNameBlokus = "blokus_match"

	// MatchLabelKey_OpenSeats is the label key for the open seat count.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpPlacePiece     int64 = 2
	OpPassTurn       int64 = 3
	OpRequestNewGame int64 = 4

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpGameStarted  int64 = 103
	OpPiecePlaced  int64 = 104
	OpTurnPassed   int64 = 105
	OpSeatFinished int64 = 106
	OpGameEnded    int64 = 107
	OpGameError    int64 = 108
)
