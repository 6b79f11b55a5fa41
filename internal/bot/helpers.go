package bot

import (
	"collapsization/internal/app"
	"collapsization/internal/domain"
)

// hexProspect digests the public evidence about one nominated hex.
type hexProspect struct {
	hex      domain.Hex
	claims   []domain.Nomination
	warned   bool         // at least one Spade claim
	verified bool         // Mayor inspected it on an earlier turn
	known    *domain.Card // reality visible to this role, if any
}

// consensus reports whether two claims landed on the hex and agree on suit.
func (p hexProspect) consensus() bool {
	return len(p.claims) >= 2 && p.claims[0].Claim.Suit == p.claims[1].Claim.Suit
}

// expectedSuit is the reality suit the evidence points at: a known reality
// wins outright, otherwise the first non-Spade claim. ok is false when
// every claim is a Spade warning.
func (p hexProspect) expectedSuit() (domain.Suit, bool) {
	if p.known != nil {
		return p.known.Suit, p.known.Suit != domain.SuitSpades
	}
	for _, n := range p.claims {
		if n.Claim.Suit != domain.SuitSpades {
			return n.Claim.Suit, true
		}
	}
	return 0, false
}

// prospects groups the revealed nominations per hex, in first-nomination
// order, joined with whatever this role's view knows about each hex.
func prospects(view app.RoleView) []hexProspect {
	var out []hexProspect
	index := make(map[domain.Hex]int)
	for _, n := range view.Nominations {
		i, seen := index[n.Hex]
		if !seen {
			i = len(out)
			index[n.Hex] = i
			p := hexProspect{hex: n.Hex, verified: containsHex(view.VerifiedHexes, n.Hex)}
			if c, ok := view.Reality[n.Hex]; ok {
				reality := c
				p.known = &reality
			}
			out = append(out, p)
		}
		out[i].claims = append(out[i].claims, n)
		if n.Claim.Suit == domain.SuitSpades {
			out[i].warned = true
		}
	}
	return out
}

// affinitySuit returns the advisor's home suit for the domain tie-break.
func affinitySuit(role domain.Role) domain.Suit {
	if role == domain.RoleUrbanist {
		return domain.SuitHearts
	}
	return domain.SuitDiamonds
}

// firstHiddenIndex returns the lowest hand slot not yet face-up.
func firstHiddenIndex(view app.RoleView) (int, bool) {
	for i := range view.Hand {
		if !containsInt(view.RevealedIndices, i) {
			return i, true
		}
	}
	return 0, false
}

// lowestHiddenIndex returns the hidden hand slot holding the lowest card,
// keeping the strong cards out of sight.
func lowestHiddenIndex(view app.RoleView) (int, bool) {
	best := -1
	for i, c := range view.Hand {
		if containsInt(view.RevealedIndices, i) {
			continue
		}
		if best == -1 || c.Value() < view.Hand[best].Value() {
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// lowestHandIndexOfSuit returns the hand slot with the cheapest card of the
// given suit, or -1.
func lowestHandIndexOfSuit(view app.RoleView, suit domain.Suit) int {
	best := -1
	for i, c := range view.Hand {
		if c.Suit != suit {
			continue
		}
		if best == -1 || c.Value() < view.Hand[best].Value() {
			best = i
		}
	}
	return best
}

// commitCandidates lists the frontier hexes still open to this advisor's
// envelope, in frontier order.
func commitCandidates(view app.RoleView) []domain.Hex {
	var out []domain.Hex
	for _, h := range view.Frontier {
		if nominationTargets(view.OwnCommits, h) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// forcedHexFor reports the hex this advisor's first commit is pinned to,
// if the Mayor forced hexes this turn.
func forcedHexFor(view app.RoleView) (domain.Hex, bool) {
	if view.ControlMode != domain.ControlForceHexes || len(view.OwnCommits) != 0 {
		return domain.Hex{}, false
	}
	h, ok := view.ForcedHexes[view.Role]
	return h, ok
}

// forcedSuitNeeded reports the suit the advisor's second commit must claim:
// set only under force-suits when the first claim missed the forced suit
// and the tray can still satisfy it.
func forcedSuitNeeded(view app.RoleView) (domain.Suit, bool) {
	if view.ControlMode != domain.ControlForceSuits || len(view.OwnCommits) != 1 {
		return 0, false
	}
	forced, ok := view.ForcedSuitConfig.ForcedSuitFor(view.Role)
	if !ok || view.OwnCommits[0].Claim.Suit == forced {
		return 0, false
	}
	if !trayHasSuit(view, forced) {
		return 0, false
	}
	return forced, true
}

func trayHasSuit(view app.RoleView, suit domain.Suit) bool {
	for _, idx := range view.Tray {
		if c, err := domain.CardFromIndex(idx); err == nil && c.Suit == suit {
			return true
		}
	}
	return false
}

// closestTrayCardOfSuit finds the tray card of the given suit whose value
// sits nearest the target.
func closestTrayCardOfSuit(view app.RoleView, suit domain.Suit, target int32) (int32, bool) {
	best := int32(-1)
	var bestDiff int32
	for _, idx := range view.Tray {
		c, err := domain.CardFromIndex(idx)
		if err != nil || c.Suit != suit {
			continue
		}
		diff := abs32(c.Value() - target)
		if best == -1 || diff < bestDiff {
			best = idx
			bestDiff = diff
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// closestTrayCard finds the tray card of any suit nearest the target value.
func closestTrayCard(view app.RoleView, target int32) (int32, bool) {
	best := int32(-1)
	var bestDiff int32
	for _, idx := range view.Tray {
		c, err := domain.CardFromIndex(idx)
		if err != nil {
			continue
		}
		diff := abs32(c.Value() - target)
		if best == -1 || diff < bestDiff {
			best = idx
			bestDiff = diff
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// nearestToCenter returns the frontier hex closest to the town center.
func nearestToCenter(frontier []domain.Hex) domain.Hex {
	best := frontier[0]
	for _, h := range frontier[1:] {
		if domain.Distance(h, domain.TownCenter) < domain.Distance(best, domain.TownCenter) {
			best = h
		}
	}
	return best
}

// secondNearestToCenter returns the closest frontier hex other than skip.
func secondNearestToCenter(frontier []domain.Hex, skip domain.Hex) domain.Hex {
	best := skip
	found := false
	for _, h := range frontier {
		if h == skip {
			continue
		}
		if !found || domain.Distance(h, domain.TownCenter) < domain.Distance(best, domain.TownCenter) {
			best = h
			found = true
		}
	}
	return best
}

func nominationTargets(noms []domain.Nomination, hex domain.Hex) bool {
	for _, n := range noms {
		if n.Hex == hex {
			return true
		}
	}
	return false
}

func containsHex(hexes []domain.Hex, hex domain.Hex) bool {
	for _, h := range hexes {
		if h == hex {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
