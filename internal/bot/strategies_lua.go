package bot

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"blokus/internal/domain"
)

// ScriptedBot delegates move selection to a Lua strategy script. The
// script receives the legal candidates and returns the 1-based index of
// its choice, or 0 to pass. Strategy stays an external, swappable
// policy: the engine only ever sees the resulting single move.
//
// Script environment:
//
//	seat        -- the acting seat index
//	board_size  -- the board dimension
//	candidates  -- array of {piece, orientation, row, col, size}
type ScriptedBot struct {
	source string
}

// NewScriptedBot wraps an in-memory Lua source.
func NewScriptedBot(source string) *ScriptedBot {
	return &ScriptedBot{source: source}
}

// LoadScriptedBot reads a strategy script from disk.
func LoadScriptedBot(path string) (*ScriptedBot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategy script: %w", err)
	}
	return &ScriptedBot{source: string(data)}, nil
}

func (b *ScriptedBot) CalculateMove(game *domain.Game, seat int) (Move, error) {
	moves := game.ValidMoves(seat)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	// One state per decision keeps scripts stateless and the bot safe to
	// share across matches.
	L := lua.NewState()
	defer L.Close()

	candidates := L.NewTable()
	for _, m := range moves {
		entry := L.NewTable()
		entry.RawSetString("piece", lua.LString(m.Piece))
		entry.RawSetString("orientation", lua.LNumber(m.Orientation))
		entry.RawSetString("row", lua.LNumber(m.Row))
		entry.RawSetString("col", lua.LNumber(m.Col))
		entry.RawSetString("size", lua.LNumber(domain.PieceSize(m.Piece)))
		candidates.Append(entry)
	}
	L.SetGlobal("candidates", candidates)
	L.SetGlobal("seat", lua.LNumber(seat))
	L.SetGlobal("board_size", lua.LNumber(game.Board.Size()))

	if err := L.DoString(b.source); err != nil {
		return Move{Pass: true}, fmt.Errorf("strategy script failed: %w", err)
	}

	ret := L.Get(-1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return Move{Pass: true}, fmt.Errorf("strategy script returned %s, want a number", ret.Type())
	}

	choice := int(n)
	if choice == 0 {
		return Move{Pass: true}, nil
	}
	if choice < 1 || choice > len(moves) {
		return Move{Pass: true}, fmt.Errorf("strategy script chose %d of %d candidates", choice, len(moves))
	}
	return placement(moves[choice-1]), nil
}
