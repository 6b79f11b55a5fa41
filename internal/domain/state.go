package domain

import (
	"errors"
	"math/rand"
)

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseLobby is the pre-game state while roles are being assigned.
	PhaseLobby Phase = "lobby"
	// PhaseDraw is the Mayor's draw-and-reveal step.
	PhaseDraw Phase = "draw"
	// PhaseControl is the Mayor's constraint choice.
	PhaseControl Phase = "control"
	// PhaseNominate is the advisors' hidden commit step.
	PhaseNominate Phase = "nominate"
	// PhasePlace is the Mayor's build-or-verify step.
	PhasePlace Phase = "place"
	// PhaseGameOver is terminal; no further mutation is accepted.
	PhaseGameOver Phase = "game_over"
)

// Role identifies one of the three players.
type Role string

const (
	RoleMayor    Role = "mayor"
	RoleIndustry Role = "industry"
	RoleUrbanist Role = "urbanist"
)

// Roles lists all roles in seating order.
var Roles = []Role{RoleMayor, RoleIndustry, RoleUrbanist}

// AdvisorRoles lists the two advisors in nomination-reveal order.
var AdvisorRoles = []Role{RoleIndustry, RoleUrbanist}

// IsAdvisor reports whether the role is one of the two advisors.
func (r Role) IsAdvisor() bool {
	return r == RoleIndustry || r == RoleUrbanist
}

// ControlMode is the Mayor's per-turn constraint choice.
type ControlMode string

const (
	ControlNone       ControlMode = ""
	ControlForceSuits ControlMode = "force_suits"
	ControlForceHexes ControlMode = "force_hexes"
)

// SuitConfig selects which advisor is bound to which suit under
// ControlForceSuits.
type SuitConfig string

const (
	SuitConfigNone SuitConfig = ""
	// SuitConfigUrbanistDiamonds forces Urbanist to Diamonds and Industry to Hearts.
	SuitConfigUrbanistDiamonds SuitConfig = "urbanist_diamonds"
	// SuitConfigUrbanistHearts forces Urbanist to Hearts and Industry to Diamonds.
	SuitConfigUrbanistHearts SuitConfig = "urbanist_hearts"
)

// ForcedSuitFor returns the suit an advisor is bound to under this config.
func (c SuitConfig) ForcedSuitFor(role Role) (Suit, bool) {
	switch c {
	case SuitConfigUrbanistDiamonds:
		switch role {
		case RoleUrbanist:
			return SuitDiamonds, true
		case RoleIndustry:
			return SuitHearts, true
		}
	case SuitConfigUrbanistHearts:
		switch role {
		case RoleUrbanist:
			return SuitHearts, true
		case RoleIndustry:
			return SuitDiamonds, true
		}
	}
	return 0, false
}

// Nomination pairs a frontier hex with an advisor's claimed card.
type Nomination struct {
	Advisor Role `json:"advisor"`
	Hex     Hex  `json:"hex"`
	Claim   Card `json:"claim"`
}

// Facilities tracks completed city facilities by reality suit.
type Facilities struct {
	Hearts   int `json:"hearts"`
	Diamonds int `json:"diamonds"`
}

// FacilitiesToComplete is the per-suit count that finishes the city.
const FacilitiesToComplete = 10

// MayorHandSize is the hand the Mayor holds entering each Draw phase.
const MayorHandSize = 4

// RevealsPerTurn is how many hand cards the Mayor flips face-up per turn.
const RevealsPerTurn = 2

// CommitsPerAdvisor is the nomination envelope capacity per advisor.
const CommitsPerAdvisor = 2

// Engine error kinds. Every rejected operation maps to exactly one of
// these; state is never mutated on a rejection.
var (
	ErrInvalidIndex      = errors.New("invalid index")
	ErrIllegalNomination = errors.New("illegal nomination")
	ErrPhaseViolation    = errors.New("phase violation")
)

// TurnRecordKind tags history entries by how the turn was resolved.
type TurnRecordKind string

const (
	TurnRecordBuild  TurnRecordKind = "build"
	TurnRecordVerify TurnRecordKind = "verify"
)

// AuditEntry is one death-reveal finding for a non-chosen nomination.
type AuditEntry struct {
	Advisor Role `json:"advisor"`
	Hex     Hex  `json:"hex"`
	Claim   Card `json:"claim"`
	Reality Card `json:"reality"`
	Delta   int  `json:"delta"`
}

// TurnRecord is one entry of the append-only match history.
// Build records carry the placement, the reality found and score deltas;
// verify records carry only the inspected hex (its reality stays private
// to the Mayor).
type TurnRecord struct {
	Turn             int            `json:"turn"`
	Kind             TurnRecordKind `json:"kind"`
	RevealedIndices  []int          `json:"revealed_indices"`
	ControlMode      ControlMode    `json:"control_mode"`
	ForcedSuitConfig SuitConfig     `json:"forced_suit_config,omitempty"`
	ForcedHexes      map[Role]Hex   `json:"forced_hexes,omitempty"`
	Nominations      []Nomination   `json:"nominations"`
	Hex              Hex            `json:"hex"`
	PlacedCard       Card           `json:"placed_card,omitempty"`
	Reality          Card           `json:"reality,omitempty"`
	ScoreDeltas      map[Role]int   `json:"score_deltas,omitempty"`
	Audit            []AuditEntry   `json:"audit,omitempty"`
}

// RealityMap assigns each revealed tile its hidden true card.
type RealityMap map[Hex]Card

// MatchState is the single authoritative state of one match. All mutation
// goes through the app service; readers get role-filtered projections.
type MatchState struct {
	Phase     Phase           `json:"phase"`
	TurnIndex int             `json:"turn_index"`
	Players   map[Role]string `json:"players"` // role -> user id

	BuiltHexes []Hex        `json:"built_hexes"` // append-only, build order
	Revealed   map[Hex]bool `json:"revealed"`    // fog-cleared tiles
	Reality    RealityMap   `json:"reality"`

	MayorDeck   *Deck `json:"mayor_deck"`
	RealityDeck *Deck `json:"reality_deck"`

	MayorHand       []Card `json:"mayor_hand"`
	RevealedIndices []int  `json:"revealed_indices"`

	ControlMode      ControlMode  `json:"control_mode"`
	ForcedSuitConfig SuitConfig   `json:"forced_suit_config,omitempty"`
	ForcedHexes      map[Role]Hex `json:"forced_hexes,omitempty"`

	AdvisorCommits map[Role][]Nomination `json:"advisor_commits"`
	Nominations    []Nomination          `json:"nominations"`
	ClaimTrays     map[Role][]int32      `json:"claim_trays"`

	VerifiedHexes map[Hex]bool `json:"verified_hexes"`

	Facilities   Facilities   `json:"facilities"`
	Scores       map[Role]int `json:"scores"`
	MayorHitMine bool         `json:"mayor_hit_mine"`
	CityComplete bool         `json:"city_complete"`
	Winners      []Role       `json:"winners,omitempty"`

	TurnHistory []TurnRecord `json:"turn_history"`
}

// NewMatchState builds the initial lobby state: town center built with a
// fixed A-of-Hearts reality, fog lifted around it, full claim trays.
// maxInitialSpades < 0 disables the initial mine cap.
func NewMatchState(players map[Role]string, mayorRNG, realityRNG *rand.Rand, maxInitialSpades int) *MatchState {
	s := &MatchState{
		Phase:       PhaseLobby,
		Players:     make(map[Role]string, len(players)),
		BuiltHexes:  []Hex{TownCenter},
		Revealed:    make(map[Hex]bool),
		Reality:     RealityMap{TownCenter: {Suit: SuitHearts, Rank: NumRanks - 1}}, // A of Hearts
		MayorDeck:   NewDeck(mayorRNG),
		RealityDeck: NewDeck(realityRNG),
		AdvisorCommits: map[Role][]Nomination{
			RoleIndustry: {},
			RoleUrbanist: {},
		},
		ClaimTrays: map[Role][]int32{
			RoleIndustry: fullTray(),
			RoleUrbanist: fullTray(),
		},
		VerifiedHexes: make(map[Hex]bool),
		Facilities:    Facilities{Hearts: 1}, // the town center counts
		Scores: map[Role]int{
			RoleMayor:    0,
			RoleIndustry: 0,
			RoleUrbanist: 0,
		},
	}
	for role, userID := range players {
		s.Players[role] = userID
	}
	s.revealInitialFrontier(realityRNG, maxInitialSpades)
	return s
}

func fullTray() []int32 {
	tray := make([]int32, NumCards)
	for i := range tray {
		tray[i] = int32(i)
	}
	return tray
}

// RoleOf resolves a user id to its role in this match.
func (s *MatchState) RoleOf(userID string) (Role, bool) {
	for role, id := range s.Players {
		if id == userID {
			return role, true
		}
	}
	return "", false
}

// IsBuilt reports whether the hex already carries a building.
func (s *MatchState) IsBuilt(h Hex) bool {
	for _, b := range s.BuiltHexes {
		if b == h {
			return true
		}
	}
	return false
}

// Terminal reports whether the match has ended.
func (s *MatchState) Terminal() bool {
	return s.MayorHitMine || s.CityComplete
}

// RevealTile returns the reality card under a hex, drawing one from the
// reality deck on first visibility. Calling it again for the same hex
// always returns the same card.
func (s *MatchState) RevealTile(h Hex, rng *rand.Rand) Card {
	if c, ok := s.Reality[h]; ok {
		return c
	}
	c, ok := s.RealityDeck.DrawOne(rng)
	if !ok {
		// Every card is on the table; deal from a fresh set.
		s.RealityDeck.Rebuild(rng)
		c, _ = s.RealityDeck.DrawOne(rng)
	}
	s.Reality[h] = c
	return c
}

// RevealAround lifts fog on a hex and its six neighbors, assigning
// realities lazily. Returns the hexes that were newly revealed, in
// direction order.
func (s *MatchState) RevealAround(h Hex, rng *rand.Rand) []Hex {
	var newly []Hex
	reveal := func(t Hex) {
		if !s.Revealed[t] {
			s.Revealed[t] = true
			newly = append(newly, t)
		}
		s.RevealTile(t, rng)
	}
	reveal(h)
	for _, n := range h.Neighbors() {
		reveal(n)
	}
	return newly
}

// revealInitialFrontier lifts fog around the town center. With a
// non-negative cap, Spades past the cap are returned to the bottom of the
// pile and redrawn, up to ten attempts per tile.
func (s *MatchState) revealInitialFrontier(rng *rand.Rand, maxInitialSpades int) {
	s.Revealed[TownCenter] = true
	if maxInitialSpades < 0 {
		s.RevealAround(TownCenter, rng)
		return
	}

	spades := 0
	for _, n := range TownCenter.Neighbors() {
		s.Revealed[n] = true
		if _, ok := s.Reality[n]; ok {
			continue
		}
		c, drawn := s.RealityDeck.DrawOne(rng)
		if !drawn {
			s.RealityDeck.Rebuild(rng)
			c, _ = s.RealityDeck.DrawOne(rng)
		}
		for attempts := 0; c.Suit == SuitSpades && spades >= maxInitialSpades && attempts < 10; attempts++ {
			s.RealityDeck.ReturnToBottom(c)
			s.RealityDeck.Shuffle(rng)
			c, _ = s.RealityDeck.DrawOne(rng)
		}
		if c.Suit == SuitSpades {
			spades++
		}
		s.Reality[n] = c
	}
}

// BeginTurn resets per-turn state and tops the Mayor's hand back up to
// four cards, entering the Draw phase.
func (s *MatchState) BeginTurn(rng *rand.Rand) {
	s.Phase = PhaseDraw
	s.RevealedIndices = nil
	s.ControlMode = ControlNone
	s.ForcedSuitConfig = SuitConfigNone
	s.ForcedHexes = nil
	s.AdvisorCommits = map[Role][]Nomination{
		RoleIndustry: {},
		RoleUrbanist: {},
	}
	s.Nominations = nil
	if missing := MayorHandSize - len(s.MayorHand); missing > 0 {
		s.MayorHand = append(s.MayorHand, s.MayorDeck.Draw(missing, rng)...)
	}
}

// IndexRevealed reports whether the hand slot is already face-up.
func (s *MatchState) IndexRevealed(index int) bool {
	for _, i := range s.RevealedIndices {
		if i == index {
			return true
		}
	}
	return false
}

// NominatedHex reports whether the hex is among the revealed nominations.
func (s *MatchState) NominatedHex(h Hex) bool {
	for _, n := range s.Nominations {
		if n.Hex == h {
			return true
		}
	}
	return false
}

// TrayContains reports whether the advisor's tray still holds the card index.
func (s *MatchState) TrayContains(role Role, claimIdx int32) bool {
	for _, idx := range s.ClaimTrays[role] {
		if idx == claimIdx {
			return true
		}
	}
	return false
}

// TrayHasSuit reports whether any card of the suit remains in the tray.
func (s *MatchState) TrayHasSuit(role Role, suit Suit) bool {
	for _, idx := range s.ClaimTrays[role] {
		if c, err := CardFromIndex(idx); err == nil && c.Suit == suit {
			return true
		}
	}
	return false
}

// ConsumeClaim removes a card index from the advisor's tray, refilling
// the tray once it empties.
func (s *MatchState) ConsumeClaim(role Role, claimIdx int32) {
	tray := s.ClaimTrays[role]
	for i, idx := range tray {
		if idx == claimIdx {
			tray = append(tray[:i], tray[i+1:]...)
			break
		}
	}
	if len(tray) == 0 {
		tray = fullTray()
	}
	s.ClaimTrays[role] = tray
}
