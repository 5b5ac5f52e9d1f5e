package bot

import (
	"fmt"
)

// NewBrain creates a strategy for the given difficulty label. Unknown
// labels are an error so misconfigured identities surface early.
func NewBrain(difficulty string) (Brain, error) {
	switch difficulty {
	case "easy", "":
		return NewRandomBot(nil), nil
	case "hard":
		return NewGreedyBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot difficulty: %q", difficulty)
	}
}

// NewAgent builds an agent for a provisioned bot user, using the
// identity's difficulty and, when configured, its strategy script.
func NewAgent(userID string) (*Agent, error) {
	identity, ok := GetBotConfig(userID)
	if !ok {
		return &Agent{ID: userID, Name: userID, Strategy: NewRandomBot(nil)}, nil
	}

	var strategy Brain
	var err error
	if identity.Script != "" {
		strategy, err = LoadScriptedBot(identity.Script)
	} else {
		strategy, err = NewBrain(identity.Difficulty)
	}
	if err != nil {
		return nil, err
	}

	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Strategy: strategy,
	}, nil
}
