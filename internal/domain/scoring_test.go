package domain

import (
	"reflect"
	"testing"
)

var (
	hexA = Hex{1, -1, 0}
	hexB = Hex{0, 1, -1}
	hexC = Hex{-1, 0, 1}
)

func TestResolvePlacementMayorSuitMatch(t *testing.T) {
	// Mayor places Q of Hearts on a 6-of-Hearts tile.
	placed := Card{Suit: SuitHearts, Rank: 11}
	reality := RealityMap{hexA: {Suit: SuitHearts, Rank: 4}}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitDiamonds, Rank: 6}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if res.IsMine {
		t.Fatal("hearts tile misread as a mine")
	}
	if res.Deltas[RoleMayor] != 1 {
		t.Errorf("mayor delta = %d, want 1", res.Deltas[RoleMayor])
	}
	// Industry's called diamond claim on a hearts tile is a caught bluff.
	if res.Deltas[RoleIndustry] != 0 {
		t.Errorf("industry delta = %d, want 0", res.Deltas[RoleIndustry])
	}
}

func TestResolvePlacementDomainAffinityTieBreak(t *testing.T) {
	// Industry claims 8D, Urbanist claims KD, Mayor places 10D on a
	// 10-of-Diamonds tile. Value distances tie (2 vs 2), both claims
	// match the placed suit, so affinity hands Diamonds to Industry.
	placed := Card{Suit: SuitDiamonds, Rank: 8}
	reality := RealityMap{hexA: {Suit: SuitDiamonds, Rank: 8}}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitDiamonds, Rank: 6}},
		{Advisor: RoleUrbanist, Hex: hexA, Claim: Card{Suit: SuitDiamonds, Rank: 10}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if res.Winner != RoleIndustry {
		t.Fatalf("winner = %s, want industry", res.Winner)
	}
	if res.Deltas[RoleIndustry] != 1 {
		t.Errorf("industry delta = %d, want 1", res.Deltas[RoleIndustry])
	}
	if res.Deltas[RoleUrbanist] != 0 {
		t.Errorf("urbanist delta = %d, want 0", res.Deltas[RoleUrbanist])
	}
	if res.Deltas[RoleMayor] != 1 {
		t.Errorf("mayor delta = %d, want 1", res.Deltas[RoleMayor])
	}
}

func TestResolvePlacementIdenticalSpadeClaimsGuard(t *testing.T) {
	// Both advisors claim the identical 5 of Spades on a safe tile:
	// affinity would normally favor Industry, but nobody may win a hex
	// both lied about.
	placed := Card{Suit: SuitHearts, Rank: 7}
	reality := RealityMap{hexA: {Suit: SuitHearts, Rank: 6}}
	spadeClaim := Card{Suit: SuitSpades, Rank: 3}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: spadeClaim},
		{Advisor: RoleUrbanist, Hex: hexA, Claim: spadeClaim},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if res.Winner != "" {
		t.Fatalf("winner = %s, want none", res.Winner)
	}
	if res.Deltas[RoleIndustry] != 0 || res.Deltas[RoleUrbanist] != 0 {
		t.Errorf("advisor deltas = %d/%d, want 0/0",
			res.Deltas[RoleIndustry], res.Deltas[RoleUrbanist])
	}
	if res.Deltas[RoleMayor] != 1 {
		t.Errorf("mayor delta = %d, want 1", res.Deltas[RoleMayor])
	}
}

func TestResolvePlacementMineScoresAllNominators(t *testing.T) {
	// Spade reality: the honest warner gains, the liar pays, and the
	// trust/call ladder never runs.
	placed := Card{Suit: SuitDiamonds, Rank: 0}
	reality := RealityMap{hexA: {Suit: SuitSpades, Rank: 5}}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitSpades, Rank: 3}},
		{Advisor: RoleUrbanist, Hex: hexA, Claim: Card{Suit: SuitHearts, Rank: 3}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if !res.IsMine {
		t.Fatal("spade tile not detected as a mine")
	}
	if res.Deltas[RoleIndustry] != 1 {
		t.Errorf("industry delta = %d, want 1", res.Deltas[RoleIndustry])
	}
	if res.Deltas[RoleUrbanist] != -2 {
		t.Errorf("urbanist delta = %d, want -2", res.Deltas[RoleUrbanist])
	}
	if res.Deltas[RoleMayor] != 0 {
		t.Errorf("mayor delta = %d, want 0", res.Deltas[RoleMayor])
	}
}

func TestResolvePlacementDeathAudit(t *testing.T) {
	// Mine strike on hexA. The audit covers the other nominations:
	// Industry hid a mine on hexB (-3), Urbanist cried wolf on hexC (-2).
	placed := Card{Suit: SuitHearts, Rank: 0}
	reality := RealityMap{
		hexA: {Suit: SuitSpades, Rank: 5},
		hexB: {Suit: SuitSpades, Rank: 8},
		hexC: {Suit: SuitHearts, Rank: 2},
	}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitSpades, Rank: 5}},
		{Advisor: RoleIndustry, Hex: hexB, Claim: Card{Suit: SuitDiamonds, Rank: 4}},
		{Advisor: RoleUrbanist, Hex: hexA, Claim: Card{Suit: SuitSpades, Rank: 2}},
		{Advisor: RoleUrbanist, Hex: hexC, Claim: Card{Suit: SuitSpades, Rank: 9}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if !res.IsMine {
		t.Fatal("expected a mine strike")
	}
	if len(res.Audit) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(res.Audit))
	}

	byHex := make(map[Hex]AuditEntry)
	for _, a := range res.Audit {
		byHex[a.Hex] = a
	}
	if got := byHex[hexB].Delta; got != -3 {
		t.Errorf("hidden mine delta = %d, want -3", got)
	}
	if got := byHex[hexC].Delta; got != -2 {
		t.Errorf("cried wolf delta = %d, want -2", got)
	}

	// Chosen hex: both warned honestly (+1 each); audit stacks on top.
	if res.Deltas[RoleIndustry] != 1-3 {
		t.Errorf("industry delta = %d, want -2", res.Deltas[RoleIndustry])
	}
	if res.Deltas[RoleUrbanist] != 1-2 {
		t.Errorf("urbanist delta = %d, want -1", res.Deltas[RoleUrbanist])
	}
}

func TestResolvePlacementTrustAndCall(t *testing.T) {
	tests := []struct {
		name   string
		placed Card
		claim  Card
		tile   Card
		want   int
	}{
		{
			name:   "trusted bluff still pays",
			placed: Card{Suit: SuitDiamonds, Rank: 7},
			claim:  Card{Suit: SuitDiamonds, Rank: 3},
			tile:   Card{Suit: SuitHearts, Rank: 6},
			want:   1,
		},
		{
			name:   "called but honest",
			placed: Card{Suit: SuitHearts, Rank: 7},
			claim:  Card{Suit: SuitDiamonds, Rank: 3},
			tile:   Card{Suit: SuitDiamonds, Rank: 5},
			want:   1,
		},
		{
			name:   "called and caught",
			placed: Card{Suit: SuitHearts, Rank: 7},
			claim:  Card{Suit: SuitDiamonds, Rank: 3},
			tile:   Card{Suit: SuitHearts, Rank: 5},
			want:   0,
		},
		{
			name:   "called false mine claim scores nothing",
			placed: Card{Suit: SuitHearts, Rank: 7},
			claim:  Card{Suit: SuitSpades, Rank: 3},
			tile:   Card{Suit: SuitDiamonds, Rank: 5},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reality := RealityMap{hexA: tt.tile}
			noms := []Nomination{{Advisor: RoleIndustry, Hex: hexA, Claim: tt.claim}}
			res := ResolvePlacement(tt.placed, hexA, noms, reality)
			if res.Deltas[RoleIndustry] != tt.want {
				t.Errorf("industry delta = %d, want %d", res.Deltas[RoleIndustry], tt.want)
			}
		})
	}
}

func TestResolvePlacementClosestValueWins(t *testing.T) {
	// Industry is one off, Urbanist five off; distance decides alone.
	placed := Card{Suit: SuitHearts, Rank: 6}
	reality := RealityMap{hexA: {Suit: SuitHearts, Rank: 6}}
	noms := []Nomination{
		{Advisor: RoleUrbanist, Hex: hexA, Claim: Card{Suit: SuitHearts, Rank: 11}},
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitDiamonds, Rank: 7}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if res.Winner != RoleIndustry {
		t.Fatalf("winner = %s, want industry", res.Winner)
	}
}

func TestResolvePlacementSuitMatchBreaksValueTie(t *testing.T) {
	// Equal distance; Urbanist's claim matches the placed suit.
	placed := Card{Suit: SuitHearts, Rank: 6}
	reality := RealityMap{hexA: {Suit: SuitDiamonds, Rank: 6}}
	noms := []Nomination{
		{Advisor: RoleIndustry, Hex: hexA, Claim: Card{Suit: SuitDiamonds, Rank: 4}},
		{Advisor: RoleUrbanist, Hex: hexA, Claim: Card{Suit: SuitHearts, Rank: 8}},
	}

	res := ResolvePlacement(placed, hexA, noms, reality)
	if res.Winner != RoleUrbanist {
		t.Fatalf("winner = %s, want urbanist", res.Winner)
	}
}

func TestDetermineWinners(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[Role]int
		mineHit  bool
		expected []Role
	}{
		{
			name:     "mine excludes mayor",
			scores:   map[Role]int{RoleMayor: 9, RoleIndustry: 3, RoleUrbanist: 1},
			mineHit:  true,
			expected: []Role{RoleIndustry},
		},
		{
			name:     "mine with advisor tie shares the win",
			scores:   map[Role]int{RoleMayor: 9, RoleIndustry: 2, RoleUrbanist: 2},
			mineHit:  true,
			expected: []Role{RoleIndustry, RoleUrbanist},
		},
		{
			name:     "city completion crowns the top score",
			scores:   map[Role]int{RoleMayor: 7, RoleIndustry: 4, RoleUrbanist: 6},
			mineHit:  false,
			expected: []Role{RoleMayor},
		},
		{
			name:     "city completion three-way tie",
			scores:   map[Role]int{RoleMayor: 5, RoleIndustry: 5, RoleUrbanist: 5},
			mineHit:  false,
			expected: []Role{RoleMayor, RoleIndustry, RoleUrbanist},
		},
		{
			name:     "negative scores still compare",
			scores:   map[Role]int{RoleMayor: 0, RoleIndustry: -4, RoleUrbanist: -2},
			mineHit:  true,
			expected: []Role{RoleUrbanist},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineWinners(tt.scores, tt.mineHit)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DetermineWinners() = %v, want %v", got, tt.expected)
			}
		})
	}
}
