package bot

import (
	"collapsization/internal/app"
	"collapsization/internal/domain"
)

// IntentKind labels the single action a bot wants to submit.
type IntentKind string

const (
	// IntentNone means the view shows nothing for this role to do right now.
	IntentNone       IntentKind = ""
	IntentReveal     IntentKind = "reveal"
	IntentForceSuits IntentKind = "force_suits"
	IntentForceHexes IntentKind = "force_hexes"
	IntentCommit     IntentKind = "commit"
	IntentBuild      IntentKind = "build"
	IntentVerify     IntentKind = "verify"
)

// Intent is one action a bot submits through the same app operations a
// human client reaches over the wire. Only the fields for its Kind are
// meaningful.
type Intent struct {
	Kind IntentKind

	// HandIndex is the Mayor hand slot for reveal and build intents.
	HandIndex int

	// SuitConfig carries the force-suits control choice.
	SuitConfig domain.SuitConfig

	// IndustryHex and UrbanistHex carry the force-hexes control choice.
	IndustryHex domain.Hex
	UrbanistHex domain.Hex

	// Hex is the target of commit, build and verify intents.
	Hex domain.Hex

	// ClaimIndex is the tray card index backing a commit.
	ClaimIndex int32
}

// Brain is the interface all bot strategies implement. PlanIntent inspects
// the same filtered RoleView a client renders, so a strategy can never act
// on information its seat is not allowed to see.
type Brain interface {
	PlanIntent(view app.RoleView) (Intent, error)
}
