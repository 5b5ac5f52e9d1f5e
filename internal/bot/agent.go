package bot

import (
	"blokus/internal/domain"
)

// Agent represents an autonomous bot occupying a seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// PlayAtSeat asks the agent to decide its move for the given seat. A
// strategy failure degrades to a pass so a broken script can never stall
// a match.
func (a *Agent) PlayAtSeat(game *domain.Game, seat int) (Move, error) {
	move, err := a.Strategy.CalculateMove(game, seat)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}
