package nakama

import (
	"context"
	"database/sql"

	"blokus/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	// Bot accounts are provisioned up front so they can hold wallets and
	// appear in social views like real players.
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Could not provision bot accounts: %v", err)
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBlokus, NewMatch); err != nil {
		return err
	}

	logger.Info("Blokus Go module loaded.")
	return nil
}
