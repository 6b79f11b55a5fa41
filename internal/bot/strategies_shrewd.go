package bot

import (
	"collapsization/internal/app"
	"collapsization/internal/domain"
)

// ShrewdBot reads the turn history. As Mayor it keeps a trust ledger from
// past reveals and audits, verifies advisors whose claims stopped checking
// out, and pairs the advisors onto one forced hex when their honesty
// diverges. As an advisor it bluffs its home suit when it has fallen
// behind, but never lies about a mine.
type ShrewdBot struct {
	Tuning Tuning
}

func (b *ShrewdBot) PlanIntent(view app.RoleView) (Intent, error) {
	switch {
	case view.Phase == domain.PhaseDraw && view.Role == domain.RoleMayor:
		if idx, ok := lowestHiddenIndex(view); ok {
			return Intent{Kind: IntentReveal, HandIndex: idx}, nil
		}
	case view.Phase == domain.PhaseControl && view.Role == domain.RoleMayor:
		return b.planControl(view), nil
	case view.Phase == domain.PhaseNominate && view.Role.IsAdvisor():
		return b.planCommit(view)
	case view.Phase == domain.PhasePlace && view.Role == domain.RoleMayor:
		return b.planPlace(view)
	}
	return Intent{}, nil
}

// planControl cross-examines when trust has split: both advisors forced to
// the same near hex must claim the same tile, and a divergence exposes the
// liar. Otherwise it steers suits at the lagging facility.
func (b *ShrewdBot) planControl(view app.RoleView) Intent {
	trust := TrustScores(view.History)
	split := trust[domain.RoleIndustry] - trust[domain.RoleUrbanist]
	if split < 0 {
		split = -split
	}
	if split > 1.0-b.Tuning.VerifyMistrust && len(view.Frontier) > 0 {
		near := nearestToCenter(view.Frontier)
		return Intent{Kind: IntentForceHexes, IndustryHex: near, UrbanistHex: near}
	}

	config := domain.SuitConfigUrbanistHearts
	if view.Facilities.Diamonds < view.Facilities.Hearts {
		config = domain.SuitConfigUrbanistDiamonds
	}
	return Intent{Kind: IntentForceSuits, SuitConfig: config}
}

// planCommit claims honestly while ahead and bluffs the home suit once the
// score gap crosses BluffDeficit. Mines are always reported truthfully;
// the death audit prices a hidden mine at -3.
func (b *ShrewdBot) planCommit(view app.RoleView) (Intent, error) {
	if len(view.OwnCommits) >= domain.CommitsPerAdvisor {
		return Intent{}, nil
	}

	hex, ok := pickCommitHex(view, true)
	if !ok {
		return Intent{}, nil
	}
	reality, known := view.Reality[hex]
	if !known {
		return Intent{}, nil
	}

	wantSuit := reality.Suit
	if reality.Suit != domain.SuitSpades && b.behindBy(view) >= b.Tuning.BluffDeficit {
		wantSuit = affinitySuit(view.Role)
	}

	claim, ok := pickClaim(view, reality, wantSuit)
	if !ok {
		return Intent{}, nil
	}
	return Intent{Kind: IntentCommit, Hex: hex, ClaimIndex: claim}, nil
}

// behindBy is how far this advisor trails the best other player.
func (b *ShrewdBot) behindBy(view app.RoleView) int {
	own := view.Scores[view.Role]
	best := own
	for role, score := range view.Scores {
		if role != view.Role && score > best {
			best = score
		}
	}
	return best - own
}

// planPlace weighs the evidence with the trust ledger and verifies when
// the best available claim comes from an advisor below the mistrust line.
func (b *ShrewdBot) planPlace(view app.RoleView) (Intent, error) {
	trust := TrustScores(view.History)

	ps := prospects(view)
	if len(ps) == 0 {
		return Intent{}, nil
	}

	// A personally verified safe hex needs no trust at all.
	for _, p := range ps {
		if p.known != nil && p.known.Suit != domain.SuitSpades {
			return buildIntent(view, p), nil
		}
	}

	if view.TurnIndex < b.Tuning.VerifyTurnLimit {
		best := 0.0
		for _, p := range ps {
			if p.known != nil {
				continue
			}
			if s := supportScore(p, trust); s > best {
				best = s
			}
		}
		if best <= b.Tuning.VerifyMistrust {
			for _, p := range ps {
				if !p.verified {
					return Intent{Kind: IntentVerify, Hex: p.hex}, nil
				}
			}
		}
	}

	return planWeighedPlace(view, trust)
}
