package bot

// Tuning holds the thresholds the shrewd strategy consults.
type Tuning struct {
	// VerifyMistrust is the trust ratio at or below which the Mayor
	// inspects a nominated hex instead of building on a claim.
	VerifyMistrust float64
	// BluffDeficit is how many points behind the best opponent an advisor
	// must be before it starts claiming its home suit regardless of truth.
	BluffDeficit int
	// VerifyTurnLimit stops trust-driven verifies late in the match, when
	// spending turns on inspection no longer pays for itself.
	VerifyTurnLimit int
}

// DefaultTuning carries the play-tested values.
var DefaultTuning = Tuning{
	VerifyMistrust:  0.5,
	BluffDeficit:    2,
	VerifyTurnLimit: 14,
}
