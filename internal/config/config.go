package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig carries the server-side tunables loaded from data/game_config.json.
// Every field has a safe default so a missing or partial file never blocks a
// match from starting; the Nakama runtime env can still override per-deployment.
type GameConfig struct {
	// BotsEnabled allows AI players to fill and play vacant roles.
	BotsEnabled bool `json:"bots_enabled"`
	// BotMinDelaySeconds is the minimum seconds a bot waits before acting.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	// BotMaxDelaySeconds is the maximum seconds a bot waits before acting.
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// MaxInitialSpades caps how many mines the starting frontier may hold.
	// Negative disables the cap.
	MaxInitialSpades int `json:"max_initial_spades"`
	// LeaderboardID is the standings leaderboard written at game over.
	LeaderboardID string `json:"leaderboard_id"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// DefaultGameConfig returns the built-in tunables used when no file is loaded.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		BotsEnabled:             true,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		BotAutoFillDelaySeconds: 5,
		MaxInitialSpades:        -1,
		LeaderboardID:           "collapsization_standings",
	}
}

// LoadGameConfig loads the game configuration from the given path.
// Fields absent from the file keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := DefaultGameConfig()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when no file
// was loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetLeaderboardID returns the configured standings leaderboard id.
func GetLeaderboardID() string {
	if cfg == nil || cfg.LeaderboardID == "" {
		return DefaultGameConfig().LeaderboardID
	}
	return cfg.LeaderboardID
}
