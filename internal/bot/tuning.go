package bot

// Weights steer GreedyBot's one-ply ranking of candidate moves.
type Weights struct {
	// PieceSizeWeight rewards spending large pieces early.
	PieceSizeWeight float64
	// CornerGainWeight rewards moves that open new corner candidates.
	CornerGainWeight float64
	// CenterWeight rewards placements closer to the board center, which
	// matters most in the opening.
	CenterWeight float64
}

// DefaultWeights is the stock greedy tuning: piece size dominates,
// corner growth breaks ties, a small pull toward the center.
var DefaultWeights = Weights{
	PieceSizeWeight:  10.0,
	CornerGainWeight: 1.0,
	CenterWeight:     0.1,
}
