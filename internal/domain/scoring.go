package domain

// Resolution is the scoring outcome of a single placement.
type Resolution struct {
	IsMine bool
	// Winner is the advisor whose nomination won the chosen hex, or ""
	// when the hex was not nominated or the exploit guard tripped.
	Winner Role
	// Deltas holds the score change for every role, including death-audit
	// penalties on a mine strike.
	Deltas map[Role]int
	// Audit lists the death-reveal findings for nominations on hexes
	// other than the chosen one. Populated only on a mine strike.
	Audit []AuditEntry
}

// ResolvePlacement scores a successful build. It never mutates its
// inputs; the caller applies Deltas and records the resolution.
func ResolvePlacement(placed Card, chosen Hex, noms []Nomination, reality RealityMap) Resolution {
	res := Resolution{
		Deltas: map[Role]int{
			RoleMayor:    0,
			RoleIndustry: 0,
			RoleUrbanist: 0,
		},
	}

	tile := reality[chosen]
	res.IsMine = tile.Suit == SuitSpades

	var nomsForHex []Nomination
	for _, n := range noms {
		if n.Hex == chosen {
			nomsForHex = append(nomsForHex, n)
		}
	}

	if res.IsMine {
		// Every nominator of the mine hex is scored on honesty alone.
		for _, n := range nomsForHex {
			if n.Claim.Suit == SuitSpades {
				res.Deltas[n.Advisor]++
			} else {
				res.Deltas[n.Advisor] -= 2
			}
		}
		res.Audit = deathAudit(chosen, noms, reality)
		for _, a := range res.Audit {
			res.Deltas[a.Advisor] += a.Delta
		}
		return res
	}

	if len(nomsForHex) > 0 {
		winner, guard := winningNomination(nomsForHex, placed)
		if guard {
			// Both advisors pushed the same Spade claim on a safe hex.
			// Nobody wins it.
		} else {
			res.Winner = winner.Advisor
			switch {
			case placed.Suit == winner.Claim.Suit:
				// Mayor trusted the claim.
				res.Deltas[winner.Advisor]++
			case winner.Claim.Suit == tile.Suit:
				// Mayor called an honest advisor.
				res.Deltas[winner.Advisor]++
			default:
				// Bluff caught; no points.
			}
		}
	}

	if placed.Suit == tile.Suit {
		res.Deltas[RoleMayor]++
	}

	return res
}

// winningNomination resolves which claim takes a contested hex:
// closest value to the placed card, then suit match with the placed card,
// then domain affinity. The returned guard flag is set when both claims
// are the identical Spade card, which would otherwise hand Industry the
// hex through affinity alone.
func winningNomination(noms []Nomination, placed Card) (Nomination, bool) {
	winner := noms[0]
	if len(noms) == 1 {
		return winner, false
	}

	var bestDiff int32
	var bestSuitMatch, bestDomainMatch bool
	for i, n := range noms {
		diff := abs32(n.Claim.Value() - placed.Value())
		suitMatch := n.Claim.Suit == placed.Suit
		domainMatch := domainAffinity(n.Claim.Suit, n.Advisor)

		dominated := i == 0
		if !dominated {
			if diff < bestDiff {
				dominated = true
			} else if diff == bestDiff {
				if suitMatch && !bestSuitMatch {
					dominated = true
				} else if suitMatch == bestSuitMatch && domainMatch && !bestDomainMatch {
					dominated = true
				}
			}
		}
		if dominated {
			bestDiff = diff
			bestSuitMatch = suitMatch
			bestDomainMatch = domainMatch
			winner = n
		}
	}

	guard := noms[0].Claim.Suit == SuitSpades && noms[0].Claim == noms[1].Claim
	return winner, guard
}

// domainAffinity reports whether the claimed suit falls in the advisor's
// home domain: Hearts belong to Urbanist, Diamonds and Spades to Industry.
func domainAffinity(claimSuit Suit, advisor Role) bool {
	if claimSuit == SuitHearts {
		return advisor == RoleUrbanist
	}
	return advisor == RoleIndustry
}

// deathAudit reveals every non-chosen nominated hex after a mine strike
// and grades each claim against the reality found there: hiding a mine
// costs 3, crying wolf costs 2, honesty costs nothing.
func deathAudit(chosen Hex, noms []Nomination, reality RealityMap) []AuditEntry {
	var audit []AuditEntry
	for _, n := range noms {
		if n.Hex == chosen {
			continue
		}
		tile := reality[n.Hex]
		delta := 0
		switch {
		case tile.Suit == SuitSpades && n.Claim.Suit != SuitSpades:
			delta = -3
		case tile.Suit != SuitSpades && n.Claim.Suit == SuitSpades:
			delta = -2
		}
		audit = append(audit, AuditEntry{
			Advisor: n.Advisor,
			Hex:     n.Hex,
			Claim:   n.Claim,
			Reality: tile,
			Delta:   delta,
		})
	}
	return audit
}

// DetermineWinners returns the winning roles at match end, ties shared.
// A mine strike excludes the Mayor from contention.
func DetermineWinners(scores map[Role]int, mayorHitMine bool) []Role {
	candidates := Roles
	if mayorHitMine {
		candidates = AdvisorRoles
	}

	best := scores[candidates[0]]
	for _, r := range candidates[1:] {
		if scores[r] > best {
			best = scores[r]
		}
	}

	var winners []Role
	for _, r := range candidates {
		if scores[r] == best {
			winners = append(winners, r)
		}
	}
	return winners
}
