package bot

import (
	"collapsization/internal/app"
	"collapsization/internal/domain"
)

// CautiousBot plays the simplest legal game: it reveals in slot order,
// always forces home suits, nominates the safest hexes it can see and
// never claims anything but the truth.
type CautiousBot struct{}

func (b *CautiousBot) PlanIntent(view app.RoleView) (Intent, error) {
	switch {
	case view.Phase == domain.PhaseDraw && view.Role == domain.RoleMayor:
		if idx, ok := firstHiddenIndex(view); ok {
			return Intent{Kind: IntentReveal, HandIndex: idx}, nil
		}
	case view.Phase == domain.PhaseControl && view.Role == domain.RoleMayor:
		// Home suits: Urbanist answers for Hearts, Industry for Diamonds.
		return Intent{Kind: IntentForceSuits, SuitConfig: domain.SuitConfigUrbanistHearts}, nil
	case view.Phase == domain.PhaseNominate && view.Role.IsAdvisor():
		return planHonestCommit(view, false)
	case view.Phase == domain.PhasePlace && view.Role == domain.RoleMayor:
		return planTrustingPlace(view)
	}
	return Intent{}, nil
}

// BalancedBot follows the same honest lines but picks targets with the
// score ladder in mind: affinity-suit hexes, lagging facilities, and a
// verify when every nomination smells like a mine.
type BalancedBot struct{}

func (b *BalancedBot) PlanIntent(view app.RoleView) (Intent, error) {
	switch {
	case view.Phase == domain.PhaseDraw && view.Role == domain.RoleMayor:
		if idx, ok := lowestHiddenIndex(view); ok {
			return Intent{Kind: IntentReveal, HandIndex: idx}, nil
		}
	case view.Phase == domain.PhaseControl && view.Role == domain.RoleMayor:
		return planControl(view), nil
	case view.Phase == domain.PhaseNominate && view.Role.IsAdvisor():
		return planHonestCommit(view, true)
	case view.Phase == domain.PhasePlace && view.Role == domain.RoleMayor:
		return planWeighedPlace(view, nil)
	}
	return Intent{}, nil
}

// planControl nudges nominations toward the lagging facility, with an
// occasional forced-hex turn to cross-check the advisors on the ground.
func planControl(view app.RoleView) Intent {
	if view.TurnIndex%4 == 3 && len(view.Frontier) > 0 {
		near := nearestToCenter(view.Frontier)
		second := near
		if len(view.Frontier) > 1 {
			second = secondNearestToCenter(view.Frontier, near)
		}
		return Intent{Kind: IntentForceHexes, IndustryHex: near, UrbanistHex: second}
	}

	config := domain.SuitConfigUrbanistHearts
	if view.Facilities.Diamonds < view.Facilities.Hearts {
		// Industry answers for Diamonds under the hearts config; flip it so
		// the Urbanist hunts Diamonds instead.
		config = domain.SuitConfigUrbanistDiamonds
	}
	return Intent{Kind: IntentForceSuits, SuitConfig: config}
}

// planHonestCommit nominates the best safe hex the advisor can see and
// claims what is actually there. preferAffinity additionally ranks home-suit
// realities first, which wins contested hexes through the affinity
// tie-break.
func planHonestCommit(view app.RoleView, preferAffinity bool) (Intent, error) {
	if len(view.OwnCommits) >= domain.CommitsPerAdvisor {
		return Intent{}, nil
	}

	hex, ok := pickCommitHex(view, preferAffinity)
	if !ok {
		return Intent{}, nil
	}

	reality, known := view.Reality[hex]
	if !known {
		// Frontier tiles are always fog-free for advisors; a miss means the
		// view is stale, so wait for the next snapshot.
		return Intent{}, nil
	}

	claim, ok := pickClaim(view, reality, reality.Suit)
	if !ok {
		return Intent{}, nil
	}
	return Intent{Kind: IntentCommit, Hex: hex, ClaimIndex: claim}, nil
}

// pickCommitHex chooses the advisor's nomination target: the forced hex
// when one binds, otherwise the best-ranked frontier hex not already in
// the envelope.
func pickCommitHex(view app.RoleView, preferAffinity bool) (domain.Hex, bool) {
	if hex, forced := forcedHexFor(view); forced {
		return hex, true
	}

	candidates := commitCandidates(view)
	if len(candidates) == 0 {
		return domain.Hex{}, false
	}

	home := affinitySuit(view.Role)
	if preferAffinity {
		for _, h := range candidates {
			if c, ok := view.Reality[h]; ok && c.Suit == home {
				return h, true
			}
		}
	}
	for _, h := range candidates {
		if c, ok := view.Reality[h]; ok && c.Suit != domain.SuitSpades {
			return h, true
		}
	}
	// Nothing but mines left: nominate one and warn about it honestly.
	return candidates[0], true
}

// pickClaim selects a tray card for the nomination: the forced suit when
// the constraint still binds, otherwise wantSuit with the closest value to
// the reality, otherwise whatever the tray holds nearest in value.
func pickClaim(view app.RoleView, reality domain.Card, wantSuit domain.Suit) (int32, bool) {
	if forced, must := forcedSuitNeeded(view); must {
		wantSuit = forced
	}
	if idx, ok := closestTrayCardOfSuit(view, wantSuit, reality.Value()); ok {
		return idx, true
	}
	return closestTrayCard(view, reality.Value())
}

// planTrustingPlace takes claims at face value: it builds on the first hex
// nobody flagged as a mine and only reaches for verify when every
// nomination is flagged.
func planTrustingPlace(view app.RoleView) (Intent, error) {
	ps := prospects(view)
	if len(ps) == 0 {
		return Intent{}, nil
	}

	for _, p := range ps {
		if p.known != nil && p.known.Suit == domain.SuitSpades {
			continue
		}
		if p.warned {
			continue
		}
		return buildIntent(view, p), nil
	}

	// Everything is flagged; spend the turn confirming one flag.
	for _, p := range ps {
		if !p.verified {
			return Intent{Kind: IntentVerify, Hex: p.hex}, nil
		}
	}

	// All flagged and all already inspected: build on a hex known to be
	// safe if one exists, otherwise resign to the first.
	for _, p := range ps {
		if p.known != nil && p.known.Suit != domain.SuitSpades {
			return buildIntent(view, p), nil
		}
	}
	return buildIntent(view, ps[0]), nil
}

// planWeighedPlace ranks the nominated hexes by evidence quality: realities
// the Mayor verified personally, then consensus claims, then lone unflagged
// claims. trust, when provided, discounts claims from advisors caught lying
// before. A fully flagged board triggers a verify while the match is young.
func planWeighedPlace(view app.RoleView, trust map[domain.Role]float64) (Intent, error) {
	ps := prospects(view)
	if len(ps) == 0 {
		return Intent{}, nil
	}

	var knownSafe, consensus, unflagged []hexProspect
	for _, p := range ps {
		switch {
		case p.known != nil && p.known.Suit == domain.SuitSpades:
			// Known mine; never build here.
		case p.known != nil:
			knownSafe = append(knownSafe, p)
		case p.warned:
			// A Spade claim vetoes the hex for building.
		case p.consensus():
			consensus = append(consensus, p)
		default:
			unflagged = append(unflagged, p)
		}
	}

	if len(knownSafe) > 0 {
		return buildIntent(view, knownSafe[0]), nil
	}
	if len(consensus) > 0 {
		return buildIntent(view, bestTrusted(consensus, trust)), nil
	}
	if len(unflagged) > 0 {
		return buildIntent(view, bestTrusted(unflagged, trust)), nil
	}

	// Every hex is flagged or a known mine. Confirm a flag while turns are
	// still cheap, otherwise build on the least damned option.
	for _, p := range ps {
		if !p.verified {
			return Intent{Kind: IntentVerify, Hex: p.hex}, nil
		}
	}
	return buildIntent(view, ps[0]), nil
}

// bestTrusted picks the prospect whose supporting claims come from the
// most trusted advisor. Without a trust ledger the first prospect wins.
func bestTrusted(ps []hexProspect, trust map[domain.Role]float64) hexProspect {
	if trust == nil {
		return ps[0]
	}
	best := ps[0]
	bestScore := supportScore(best, trust)
	for _, p := range ps[1:] {
		if s := supportScore(p, trust); s > bestScore {
			best = p
			bestScore = s
		}
	}
	return best
}

func supportScore(p hexProspect, trust map[domain.Role]float64) float64 {
	score := 0.0
	for _, n := range p.claims {
		if n.Claim.Suit == domain.SuitSpades {
			continue
		}
		if t := trust[n.Advisor]; t > score {
			score = t
		}
	}
	return score
}

// buildIntent picks the hand card for a chosen hex: a card matching the
// expected reality suit scores the Mayor's point when the claim holds.
func buildIntent(view app.RoleView, p hexProspect) Intent {
	idx := 0
	if suit, ok := p.expectedSuit(); ok {
		if i := lowestHandIndexOfSuit(view, suit); i >= 0 {
			idx = i
		}
	}
	return Intent{Kind: IntentBuild, HandIndex: idx, Hex: p.hex}
}
