package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one provisioned bot profile from data/bot_identities.json.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	botIdentities []BotIdentity
	botsByID      map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botsByID = make(map[string]BotIdentity, len(botIdentities))
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				botsByID[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// ProvisionBots ensures the bot accounts exist in Nakama and carry the
// is_bot metadata. UserIDs in the identity pool are replaced with the
// authenticated account ids.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			botsByID[userID] = *identity

			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return nil
}

// GetBotConfig returns the full identity configuration for a given bot id.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identity, ok := botsByID[userID]
	return identity, ok
}

// GetBotUsername returns the username for a bot id, or an empty string if
// not a bot.
func GetBotUsername(userID string) string {
	return botsByID[userID].Username
}

// GetBotDisplayName returns the display name for a bot id, falling back to
// the username.
func GetBotDisplayName(userID string) string {
	identity := botsByID[userID]
	if identity.DisplayName == "" {
		return GetBotUsername(userID)
	}
	return identity.DisplayName
}

// GetBotIdentity returns an identity from the pool by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot_%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  "medium",
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user id belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := botsByID[userID]
	return ok
}

// GetAllBotIDs returns all known bot user ids.
func GetAllBotIDs() []string {
	ids := make([]string, 0, len(botsByID))
	for id := range botsByID {
		ids = append(ids, id)
	}
	return ids
}
