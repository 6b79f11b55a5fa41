package app

import (
	"sort"

	"collapsization/internal/domain"
)

// RoleView is the slice of MatchState one role is allowed to observe.
// Everything a client renders comes from here; the authoritative state
// itself never crosses the wire.
type RoleView struct {
	Role      domain.Role            `json:"role"`
	Phase     domain.Phase           `json:"phase"`
	TurnIndex int                    `json:"turn_index"`
	Players   map[domain.Role]string `json:"players"`

	BuiltHexes    []domain.Hex               `json:"built_hexes"`
	RevealedHexes []domain.Hex               `json:"revealed_hexes"`
	Frontier      []domain.Hex               `json:"frontier"`
	Reality       map[domain.Hex]domain.Card `json:"reality"`

	Hand            []domain.Card `json:"hand,omitempty"` // Mayor only
	HandSize        int           `json:"hand_size"`
	RevealedIndices []int         `json:"revealed_indices"`
	RevealedCards   []domain.Card `json:"revealed_cards,omitempty"`

	ControlMode      domain.ControlMode         `json:"control_mode"`
	ForcedSuitConfig domain.SuitConfig          `json:"forced_suit_config,omitempty"`
	ForcedHexes      map[domain.Role]domain.Hex `json:"forced_hexes,omitempty"`

	OwnCommits   []domain.Nomination `json:"own_commits,omitempty"` // advisors only
	CommitCounts map[domain.Role]int `json:"commit_counts"`
	Nominations  []domain.Nomination `json:"nominations,omitempty"`
	Tray         []int32             `json:"tray,omitempty"` // advisors only

	VerifiedHexes []domain.Hex `json:"verified_hexes"`

	MayorDeckSize   int `json:"mayor_deck_size"`
	RealityDeckSize int `json:"reality_deck_size"`

	Facilities   domain.Facilities   `json:"facilities"`
	Scores       map[domain.Role]int `json:"scores"`
	MayorHitMine bool                `json:"mayor_hit_mine"`
	CityComplete bool                `json:"city_complete"`
	Winners      []domain.Role       `json:"winners,omitempty"`

	History []domain.TurnRecord `json:"history"`
}

// View projects the authoritative state into what one role may see. Pure:
// no mutation, fresh containers throughout. The Mayor gets Reality only
// for built and self-verified hexes; advisors get Reality for every
// fog-free tile. Commit envelopes stay private to their owner until the
// reveal copies them into Nominations.
func View(s *domain.MatchState, role domain.Role) RoleView {
	v := RoleView{
		Role:      role,
		Phase:     s.Phase,
		TurnIndex: s.TurnIndex,
		Players:   make(map[domain.Role]string, len(s.Players)),

		BuiltHexes:    append([]domain.Hex(nil), s.BuiltHexes...),
		RevealedHexes: sortedHexes(s.Revealed),
		Frontier:      s.Frontier(),
		Reality:       make(map[domain.Hex]domain.Card),

		HandSize:        len(s.MayorHand),
		RevealedIndices: append([]int(nil), s.RevealedIndices...),

		ControlMode:      s.ControlMode,
		ForcedSuitConfig: s.ForcedSuitConfig,

		CommitCounts: map[domain.Role]int{
			domain.RoleIndustry: len(s.AdvisorCommits[domain.RoleIndustry]),
			domain.RoleUrbanist: len(s.AdvisorCommits[domain.RoleUrbanist]),
		},
		Nominations: append([]domain.Nomination(nil), s.Nominations...),

		VerifiedHexes: sortedHexes(s.VerifiedHexes),

		MayorDeckSize:   s.MayorDeck.Size(),
		RealityDeckSize: s.RealityDeck.Size(),

		Facilities:   s.Facilities,
		Scores:       make(map[domain.Role]int, len(s.Scores)),
		MayorHitMine: s.MayorHitMine,
		CityComplete: s.CityComplete,
		Winners:      append([]domain.Role(nil), s.Winners...),

		History: append([]domain.TurnRecord(nil), s.TurnHistory...),
	}
	for r, id := range s.Players {
		v.Players[r] = id
	}
	for r, score := range s.Scores {
		v.Scores[r] = score
	}
	if len(s.ForcedHexes) > 0 {
		v.ForcedHexes = make(map[domain.Role]domain.Hex, len(s.ForcedHexes))
		for r, h := range s.ForcedHexes {
			v.ForcedHexes[r] = h
		}
	}

	// The two face-up cards become public the moment the pair is complete.
	if len(s.RevealedIndices) == domain.RevealsPerTurn {
		for _, idx := range s.RevealedIndices {
			if idx >= 0 && idx < len(s.MayorHand) {
				v.RevealedCards = append(v.RevealedCards, s.MayorHand[idx])
			}
		}
	}

	switch {
	case role == domain.RoleMayor:
		v.Hand = append([]domain.Card(nil), s.MayorHand...)
		for _, h := range s.BuiltHexes {
			if c, ok := s.Reality[h]; ok {
				v.Reality[h] = c
			}
		}
		for h := range s.VerifiedHexes {
			if c, ok := s.Reality[h]; ok {
				v.Reality[h] = c
			}
		}
	case role.IsAdvisor():
		for h := range s.Revealed {
			if c, ok := s.Reality[h]; ok {
				v.Reality[h] = c
			}
		}
		v.OwnCommits = append([]domain.Nomination(nil), s.AdvisorCommits[role]...)
		v.Tray = append([]int32(nil), s.ClaimTrays[role]...)
	}

	return v
}

// sortedHexes flattens a hex set in a stable order so identical states
// project to identical views.
func sortedHexes(set map[domain.Hex]bool) []domain.Hex {
	out := make([]domain.Hex, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].Z < out[j].Z
	})
	return out
}
