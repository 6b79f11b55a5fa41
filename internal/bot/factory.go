package bot

import (
	"fmt"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelCautious BotLevel = iota
	BotLevelBalanced
	BotLevelShrewd
)

// LevelFromDifficulty maps an identity difficulty string to a strategy tier.
// Unknown strings land on Balanced.
func LevelFromDifficulty(difficulty string) BotLevel {
	switch difficulty {
	case "easy":
		return BotLevelCautious
	case "hard":
		return BotLevelShrewd
	default:
		return BotLevelBalanced
	}
}

// NewBrain creates a new AI brain for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelCautious:
		return &CautiousBot{}, nil
	case BotLevelBalanced:
		return &BalancedBot{}, nil
	case BotLevelShrewd:
		return &ShrewdBot{Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a bot user id, using the identity pool's
// difficulty when the id is provisioned and Balanced otherwise.
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelBalanced
	name := userID
	if identity, ok := GetBotConfig(userID); ok {
		level = LevelFromDifficulty(identity.Difficulty)
		name = GetBotDisplayName(userID)
	}

	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}
