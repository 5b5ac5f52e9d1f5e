package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one profile from the bot pool.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "hard"
	Script      string `json:"script"`     // optional Lua strategy path
}

var (
	botIdentities  []BotIdentity
	botIDMap       map[string]bool
	botUsernameMap map[string]string
	botConfigMap   map[string]BotIdentity
	loadOnce       sync.Once
	provisionOnce  sync.Once
	loadErr        error
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

		botIDMap = make(map[string]bool)
		botUsernameMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				mapIdentity(identity)
			}
		}
	})
	return loadErr
}

func mapIdentity(identity BotIdentity) {
	botIDMap[identity.UserID] = true
	botUsernameMap[identity.UserID] = identity.Username
	botConfigMap[identity.UserID] = identity
}

// ProvisionBots ensures bot accounts exist in Nakama and are flagged with
// is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	var err error
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":     true,
				"difficulty": identity.Difficulty,
			}
			if authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); authErr != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, authErr)
			}

			mapIdentity(*identity)
			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return err
}

// GetBotConfig returns the full identity configuration for a bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotUsername returns the username for a bot ID, or "" if not a bot.
func GetBotUsername(userID string) string {
	if botUsernameMap == nil {
		return ""
	}
	return botUsernameMap[userID]
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if botIDMap == nil {
		return false
	}
	return botIDMap[userID]
}
