package domain

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
)

func testPlayers() map[Role]string {
	return map[Role]string{
		RoleMayor:    "user-mayor",
		RoleIndustry: "user-industry",
		RoleUrbanist: "user-urbanist",
	}
}

func newTestState(seed int64) *MatchState {
	return NewMatchState(testPlayers(), rand.New(rand.NewSource(seed)), rand.New(rand.NewSource(seed+1)), -1)
}

func TestNewMatchState(t *testing.T) {
	s := newTestState(42)

	if s.Phase != PhaseLobby {
		t.Errorf("phase = %s, want %s", s.Phase, PhaseLobby)
	}
	if len(s.BuiltHexes) != 1 || s.BuiltHexes[0] != TownCenter {
		t.Errorf("built hexes = %v, want just the town center", s.BuiltHexes)
	}
	center := s.Reality[TownCenter]
	if center.Suit != SuitHearts || center.Rank != NumRanks-1 {
		t.Errorf("town center reality = %s, want A%s", center.Label(), SuitHearts)
	}
	if s.Facilities.Hearts != 1 || s.Facilities.Diamonds != 0 {
		t.Errorf("facilities = %+v, want the town center pre-counted", s.Facilities)
	}

	// Town center plus its six neighbors start fog-free with realities dealt.
	if len(s.Revealed) != 7 {
		t.Errorf("revealed tiles = %d, want 7", len(s.Revealed))
	}
	if len(s.Reality) != 7 {
		t.Errorf("reality entries = %d, want 7", len(s.Reality))
	}
	for _, n := range TownCenter.Neighbors() {
		if !s.Revealed[n] {
			t.Errorf("neighbor %s still fogged", n)
		}
	}

	if s.MayorDeck.Size() != NumCards {
		t.Errorf("mayor deck size = %d, want %d", s.MayorDeck.Size(), NumCards)
	}
	if got := s.RealityDeck.Size(); got != NumCards-6 {
		t.Errorf("reality deck size = %d, want %d", got, NumCards-6)
	}

	for _, role := range AdvisorRoles {
		if len(s.ClaimTrays[role]) != NumCards {
			t.Errorf("%s tray = %d cards, want %d", role, len(s.ClaimTrays[role]), NumCards)
		}
	}
	for _, role := range Roles {
		if s.Scores[role] != 0 {
			t.Errorf("%s score = %d, want 0", role, s.Scores[role])
		}
	}
	if s.Terminal() {
		t.Error("fresh match reports terminal")
	}
}

func TestRevealTileIdempotent(t *testing.T) {
	s := newTestState(7)
	rng := rand.New(rand.NewSource(99))
	target := Hex{2, -2, 0}

	first := s.RevealTile(target, rng)
	sizeAfter := s.RealityDeck.Size()
	second := s.RevealTile(target, rng)

	if first != second {
		t.Errorf("second reveal = %s, want %s", second.Label(), first.Label())
	}
	if s.RealityDeck.Size() != sizeAfter {
		t.Error("repeat reveal consumed another card")
	}
}

func TestRevealAroundReportsOnlyNewTiles(t *testing.T) {
	s := newTestState(7)
	rng := rand.New(rand.NewSource(99))

	// One ring out from the center: the shared edge tiles are already
	// revealed, so only the far side should come back.
	target := Hex{1, -1, 0}
	newly := s.RevealAround(target, rng)
	if len(newly) == 0 || len(newly) >= 7 {
		t.Fatalf("newly revealed = %d tiles, want between 1 and 6", len(newly))
	}
	for _, h := range newly {
		if _, ok := s.Reality[h]; !ok {
			t.Errorf("revealed tile %s has no reality", h)
		}
	}

	if again := s.RevealAround(target, rng); len(again) != 0 {
		t.Errorf("second pass revealed %d tiles, want 0", len(again))
	}
}

func TestBeginTurnTopsUpHand(t *testing.T) {
	s := newTestState(11)
	rng := rand.New(rand.NewSource(12))

	s.BeginTurn(rng)
	if s.Phase != PhaseDraw {
		t.Errorf("phase = %s, want %s", s.Phase, PhaseDraw)
	}
	if len(s.MayorHand) != MayorHandSize {
		t.Fatalf("hand = %d cards, want %d", len(s.MayorHand), MayorHandSize)
	}

	// Simulate a placement consuming one card, then the next turn refills.
	s.MayorHand = s.MayorHand[:MayorHandSize-1]
	s.RevealedIndices = []int{0, 2}
	s.ControlMode = ControlForceSuits
	s.ForcedSuitConfig = SuitConfigUrbanistHearts
	s.Nominations = []Nomination{{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitHearts, Rank: 3}}}

	s.BeginTurn(rng)
	if len(s.MayorHand) != MayorHandSize {
		t.Errorf("refilled hand = %d cards, want %d", len(s.MayorHand), MayorHandSize)
	}
	if len(s.RevealedIndices) != 0 {
		t.Error("revealed indices survived the turn boundary")
	}
	if s.ControlMode != ControlNone || s.ForcedSuitConfig != SuitConfigNone {
		t.Error("control constraint survived the turn boundary")
	}
	if len(s.Nominations) != 0 {
		t.Error("nominations survived the turn boundary")
	}
	for _, role := range AdvisorRoles {
		if len(s.AdvisorCommits[role]) != 0 {
			t.Errorf("%s commits survived the turn boundary", role)
		}
	}
}

func TestConsumeClaimRefillsEmptyTray(t *testing.T) {
	s := newTestState(3)

	s.ConsumeClaim(RoleIndustry, 5)
	if len(s.ClaimTrays[RoleIndustry]) != NumCards-1 {
		t.Fatalf("tray = %d cards, want %d", len(s.ClaimTrays[RoleIndustry]), NumCards-1)
	}
	if s.TrayContains(RoleIndustry, 5) {
		t.Error("consumed claim still in tray")
	}

	// Drain the rest; the final consume must hand back a fresh tray.
	for idx := int32(0); idx < NumCards; idx++ {
		if idx == 5 {
			continue
		}
		s.ConsumeClaim(RoleIndustry, idx)
	}
	if len(s.ClaimTrays[RoleIndustry]) != NumCards {
		t.Errorf("refilled tray = %d cards, want %d", len(s.ClaimTrays[RoleIndustry]), NumCards)
	}
	if !s.TrayContains(RoleIndustry, 5) {
		t.Error("refilled tray missing a card")
	}

	// The other advisor's tray is untouched throughout.
	if len(s.ClaimTrays[RoleUrbanist]) != NumCards {
		t.Errorf("urbanist tray = %d cards, want %d", len(s.ClaimTrays[RoleUrbanist]), NumCards)
	}
}

func TestTrayHasSuit(t *testing.T) {
	s := newTestState(3)
	for suit := Suit(0); suit < NumSuits; suit++ {
		if !s.TrayHasSuit(RoleUrbanist, suit) {
			t.Errorf("fresh tray missing %s", suit)
		}
	}

	// Strip every spade out and the check must flip.
	var tray []int32
	for idx := int32(0); idx < NumCards; idx++ {
		if c, _ := CardFromIndex(idx); c.Suit != SuitSpades {
			tray = append(tray, idx)
		}
	}
	s.ClaimTrays[RoleUrbanist] = tray
	if s.TrayHasSuit(RoleUrbanist, SuitSpades) {
		t.Error("spade reported in a spadeless tray")
	}
	if !s.TrayHasSuit(RoleUrbanist, SuitHearts) {
		t.Error("hearts missing from a spadeless tray")
	}
}

func TestInitialSpadeCap(t *testing.T) {
	capped, uncapped := 0, 0
	for seed := int64(1); seed <= 25; seed++ {
		c := NewMatchState(testPlayers(), rand.New(rand.NewSource(seed)), rand.New(rand.NewSource(seed+1000)), 0)
		u := NewMatchState(testPlayers(), rand.New(rand.NewSource(seed)), rand.New(rand.NewSource(seed+1000)), -1)
		for _, n := range TownCenter.Neighbors() {
			if c.Reality[n].Suit == SuitSpades {
				capped++
			}
			if u.Reality[n].Suit == SuitSpades {
				uncapped++
			}
		}
	}
	if capped > 1 {
		t.Errorf("capped setup dealt %d spades across 25 matches", capped)
	}
	if capped >= uncapped {
		t.Errorf("cap had no effect: %d capped vs %d uncapped spades", capped, uncapped)
	}
}

func TestNewMatchStateDeterministic(t *testing.T) {
	a := newTestState(77)
	b := newTestState(77)

	if !reflect.DeepEqual(a.Reality, b.Reality) {
		t.Error("same seeds produced different realities")
	}
	if !reflect.DeepEqual(a.RealityDeck.Pile, b.RealityDeck.Pile) {
		t.Error("same seeds produced different reality piles")
	}
	if !reflect.DeepEqual(a.MayorDeck.Pile, b.MayorDeck.Pile) {
		t.Error("same seeds produced different mayor piles")
	}

	c := newTestState(78)
	if reflect.DeepEqual(a.Reality, c.Reality) && reflect.DeepEqual(a.MayorDeck.Pile, c.MayorDeck.Pile) {
		t.Error("different seeds produced identical states")
	}
}

func TestMatchStateJSONRoundTrip(t *testing.T) {
	s := newTestState(5)
	rng := rand.New(rand.NewSource(6))
	s.BeginTurn(rng)
	s.RevealedIndices = []int{1, 3}
	s.Scores[RoleIndustry] = 2
	s.Scores[RoleUrbanist] = -1
	s.BuiltHexes = append(s.BuiltHexes, Hex{1, -1, 0})
	s.Facilities.Diamonds = 1
	s.VerifiedHexes[Hex{0, 1, -1}] = true
	s.TurnHistory = append(s.TurnHistory, TurnRecord{
		Turn:        0,
		Kind:        TurnRecordVerify,
		Hex:         Hex{0, 1, -1},
		ControlMode: ControlNone,
	})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got MatchState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Phase != s.Phase {
		t.Errorf("phase = %s, want %s", got.Phase, s.Phase)
	}
	if !reflect.DeepEqual(got.Scores, s.Scores) {
		t.Errorf("scores = %v, want %v", got.Scores, s.Scores)
	}
	if !reflect.DeepEqual(got.BuiltHexes, s.BuiltHexes) {
		t.Errorf("built hexes = %v, want %v", got.BuiltHexes, s.BuiltHexes)
	}
	if !reflect.DeepEqual(got.Reality, s.Reality) {
		t.Error("reality map did not survive the round trip")
	}
	if !reflect.DeepEqual(got.VerifiedHexes, s.VerifiedHexes) {
		t.Error("verified hexes did not survive the round trip")
	}
	if got.Facilities != s.Facilities {
		t.Errorf("facilities = %+v, want %+v", got.Facilities, s.Facilities)
	}
	if !reflect.DeepEqual(got.MayorHand, s.MayorHand) {
		t.Error("mayor hand did not survive the round trip")
	}
	if got.MayorDeck.Size() != s.MayorDeck.Size() {
		t.Errorf("mayor deck size = %d, want %d", got.MayorDeck.Size(), s.MayorDeck.Size())
	}
	if len(got.TurnHistory) != 1 || got.TurnHistory[0].Kind != TurnRecordVerify {
		t.Errorf("history = %+v, want one verify record", got.TurnHistory)
	}
}

func TestRoleOf(t *testing.T) {
	s := newTestState(1)
	tests := []struct {
		userID string
		role   Role
		ok     bool
	}{
		{"user-mayor", RoleMayor, true},
		{"user-industry", RoleIndustry, true},
		{"user-urbanist", RoleUrbanist, true},
		{"stranger", "", false},
	}
	for _, tt := range tests {
		role, ok := s.RoleOf(tt.userID)
		if role != tt.role || ok != tt.ok {
			t.Errorf("RoleOf(%q) = %s/%v, want %s/%v", tt.userID, role, ok, tt.role, tt.ok)
		}
	}
}
