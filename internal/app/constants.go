package app

// MinPlayersToStartGame is the minimum number of occupied seats.
const MinPlayersToStartGame = 2

// MaxPlayers is the seat capacity of a match.
const MaxPlayers = 4
