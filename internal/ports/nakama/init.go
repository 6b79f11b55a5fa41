package nakama

import (
	"context"
	"database/sql"

	"collapsization/internal/bot"
	"collapsization/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: Could not load game config: %v", err)
	}
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Could not provision bot accounts: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameCollapsization, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	// The standings ladder survives server restarts; creation is idempotent.
	if err := nk.LeaderboardCreate(ctx, config.GetLeaderboardID(), true, "desc", "best", "", nil, true); err != nil {
		logger.Warn("InitModule: Could not ensure standings leaderboard: %v", err)
	}

	logger.Info("Collapsization module loaded.")
	return nil
}
