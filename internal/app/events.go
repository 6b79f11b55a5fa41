package app

import "collapsization/internal/domain"

// EventKind identifies emitted match events for Nakama dispatch.
type EventKind string

const (
	EventSnapshot            EventKind = "snapshot"
	EventFogRevealed         EventKind = "fog_revealed"
	EventNominationsRevealed EventKind = "nominations_revealed"
	EventTurnResolved        EventKind = "turn_resolved"
	EventVerifyResult        EventKind = "verify_result"
	EventGameOver            EventKind = "game_over"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// SnapshotPayload carries one role's filtered projection of the match.
type SnapshotPayload struct {
	View RoleView `json:"view"`
}

// TileReveal pairs a newly visible hex with the card found under it.
type TileReveal struct {
	Hex     domain.Hex  `json:"hex"`
	Reality domain.Card `json:"reality"`
}

// FogRevealedPayload lists tiles whose fog lifted this turn. Advisors only;
// the Mayor learns realities through builds and verifies.
type FogRevealedPayload struct {
	Hexes []TileReveal `json:"hexes"`
}

// NominationsRevealedPayload publishes both envelopes at once.
type NominationsRevealedPayload struct {
	Nominations []domain.Nomination `json:"nominations"`
}

// TurnResolvedPayload is the public record of one build resolution.
type TurnResolvedPayload struct {
	Turn       int                 `json:"turn"`
	Hex        domain.Hex          `json:"hex"`
	PlacedCard domain.Card         `json:"placed_card"`
	Reality    domain.Card         `json:"reality"`
	Deltas     map[domain.Role]int `json:"deltas"`
	Scores     map[domain.Role]int `json:"scores"`
	Facilities domain.Facilities   `json:"facilities"`
	Audit      []domain.AuditEntry `json:"audit,omitempty"`
	NextPhase  domain.Phase        `json:"next_phase"`
}

// VerifyResultPayload is sent to the Mayor alone.
type VerifyResultPayload struct {
	Hex     domain.Hex  `json:"hex"`
	Reality domain.Card `json:"reality"`
}

// GameOverPayload announces the terminal outcome. ResultToken is filled
// per recipient by the match adapter.
type GameOverPayload struct {
	Winners      []domain.Role       `json:"winners"`
	Scores       map[domain.Role]int `json:"scores"`
	MayorHitMine bool                `json:"mayor_hit_mine"`
	CityComplete bool                `json:"city_complete"`
	ResultToken  string              `json:"result_token,omitempty"`
}
