package bot

import (
	"collapsization/internal/domain"
)

// ClaimRecord is one nomination graded against a reality that later became
// public.
type ClaimRecord struct {
	Advisor domain.Role
	Hex     domain.Hex
	Honest  bool
}

// AuditClaims grades every historical nomination whose hex reality became
// public knowledge: the chosen hex of each build record, plus every
// death-audit entry of a mine strike. Verify records contribute nothing;
// their reality never left the Mayor's view.
func AuditClaims(history []domain.TurnRecord) []ClaimRecord {
	var records []ClaimRecord
	for _, turn := range history {
		if turn.Kind != domain.TurnRecordBuild {
			continue
		}
		for _, n := range turn.Nominations {
			if n.Hex != turn.Hex {
				continue
			}
			records = append(records, ClaimRecord{
				Advisor: n.Advisor,
				Hex:     n.Hex,
				Honest:  n.Claim.Suit == turn.Reality.Suit,
			})
		}
		for _, a := range turn.Audit {
			records = append(records, ClaimRecord{
				Advisor: a.Advisor,
				Hex:     a.Hex,
				Honest:  a.Claim.Suit == a.Reality.Suit,
			})
		}
	}
	return records
}

// TrustScores folds the graded claims into a 0..1 honesty ratio per
// advisor. An advisor with no graded claims starts fully trusted.
func TrustScores(history []domain.TurnRecord) map[domain.Role]float64 {
	honest := make(map[domain.Role]int)
	total := make(map[domain.Role]int)
	for _, rec := range AuditClaims(history) {
		total[rec.Advisor]++
		if rec.Honest {
			honest[rec.Advisor]++
		}
	}

	scores := make(map[domain.Role]float64, len(domain.AdvisorRoles))
	for _, role := range domain.AdvisorRoles {
		if total[role] == 0 {
			scores[role] = 1.0
			continue
		}
		scores[role] = float64(honest[role]) / float64(total[role])
	}
	return scores
}
