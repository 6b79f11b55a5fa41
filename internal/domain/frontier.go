package domain

// PlayableFrontier returns every unbuilt hex adjacent to at least one
// built hex. Enumeration order is deterministic: built order, then
// neighbor direction order, first occurrence kept.
func PlayableFrontier(built []Hex) []Hex {
	builtSet := make(map[Hex]bool, len(built))
	for _, b := range built {
		builtSet[b] = true
	}

	var frontier []Hex
	seen := make(map[Hex]bool)
	for _, b := range built {
		for _, n := range b.Neighbors() {
			if builtSet[n] || seen[n] {
				continue
			}
			seen[n] = true
			frontier = append(frontier, n)
		}
	}
	return frontier
}

// IsOnFrontier reports whether the hex is unbuilt and adjacent to a
// built hex.
func IsOnFrontier(h Hex, built []Hex) bool {
	for _, b := range built {
		if b == h {
			return false
		}
	}
	for _, b := range built {
		if Adjacent(h, b) {
			return true
		}
	}
	return false
}

// IsValidNomination reports whether the hex may be nominated: it must be
// unbuilt and on the playable frontier.
func IsValidNomination(h Hex, built []Hex) bool {
	return IsOnFrontier(h, built)
}

// Frontier returns the current playable frontier of the match.
func (s *MatchState) Frontier() []Hex {
	return PlayableFrontier(s.BuiltHexes)
}
