package bot

import "testing"

func TestLevelFromDifficulty(t *testing.T) {
	tests := []struct {
		difficulty string
		want       BotLevel
	}{
		{"easy", BotLevelCautious},
		{"medium", BotLevelBalanced},
		{"hard", BotLevelShrewd},
		{"", BotLevelBalanced},
		{"nightmare", BotLevelBalanced},
	}

	for _, test := range tests {
		if got := LevelFromDifficulty(test.difficulty); got != test.want {
			t.Errorf("LevelFromDifficulty(%q) = %v, want %v", test.difficulty, got, test.want)
		}
	}
}

func TestNewBrain(t *testing.T) {
	brain, err := NewBrain(BotLevelCautious)
	if err != nil {
		t.Fatalf("NewBrain(cautious) error = %v", err)
	}
	if _, ok := brain.(*CautiousBot); !ok {
		t.Errorf("NewBrain(cautious) = %T, want *CautiousBot", brain)
	}

	brain, err = NewBrain(BotLevelShrewd)
	if err != nil {
		t.Fatalf("NewBrain(shrewd) error = %v", err)
	}
	shrewd, ok := brain.(*ShrewdBot)
	if !ok {
		t.Fatalf("NewBrain(shrewd) = %T, want *ShrewdBot", brain)
	}
	if shrewd.Tuning != DefaultTuning {
		t.Errorf("shrewd tuning = %+v, want defaults", shrewd.Tuning)
	}

	if _, err := NewBrain(BotLevel(99)); err == nil {
		t.Error("NewBrain(99) error = nil, want unknown level error")
	}
}

func TestNewAgentUsesPoolDifficulty(t *testing.T) {
	agent, err := NewAgent("test-bot-hard")
	if err != nil {
		t.Fatalf("NewAgent(test-bot-hard) error = %v", err)
	}
	if _, ok := agent.Strategy.(*ShrewdBot); !ok {
		t.Errorf("agent.Strategy = %T, want *ShrewdBot", agent.Strategy)
	}
	if agent.Name != "Vera Vault" {
		t.Errorf("agent.Name = %q, want %q", agent.Name, "Vera Vault")
	}

	agent, err = NewAgent("test-bot-easy")
	if err != nil {
		t.Fatalf("NewAgent(test-bot-easy) error = %v", err)
	}
	if _, ok := agent.Strategy.(*CautiousBot); !ok {
		t.Errorf("agent.Strategy = %T, want *CautiousBot", agent.Strategy)
	}
}

func TestNewAgentFallsBackToBalanced(t *testing.T) {
	agent, err := NewAgent("not-in-the-pool")
	if err != nil {
		t.Fatalf("NewAgent(not-in-the-pool) error = %v", err)
	}
	if _, ok := agent.Strategy.(*BalancedBot); !ok {
		t.Errorf("agent.Strategy = %T, want *BalancedBot", agent.Strategy)
	}
	if agent.ID != "not-in-the-pool" || agent.Name != "not-in-the-pool" {
		t.Errorf("agent id/name = %q/%q, want the raw id for both", agent.ID, agent.Name)
	}
}
