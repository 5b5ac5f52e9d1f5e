package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest is the optional payload for the quick match RPC.
type QuickMatchRequest struct {
	// Mode requests a board mode for a newly created match.
	Mode string `json:"mode,omitempty"`
	// Tier requests a bet tier for a newly created match.
	Tier string `json:"tier,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var request QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			logger.Warn("rpcQuickMatch: ignoring malformed payload: %v", err)
		}
	}

	// Find any open lobby for our game, preferring the requested mode.
	query := "+label.open:>=1 +label.game:blokus +label.state:lobby"
	if request.Mode != "" {
		query += " +label.mode:" + request.Mode
	}

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := 3 // leave at least one seat open

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Create new match; seat/owner assignment happens in MatchJoin (server-authoritative).
	params := map[string]interface{}{}
	if request.Mode != "" {
		params["mode"] = request.Mode
	}
	if request.Tier != "" {
		params["tier"] = request.Tier
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameBlokus, params)
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
