package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"collapsization/internal/domain"
)

// Service contains the match use-cases operating on domain state. One
// Service instance belongs to one match; its two rng streams make the
// whole match replayable from the seed.
type Service struct {
	mayorRNG         *rand.Rand
	realityRNG       *rand.Rand
	maxInitialSpades int
}

// NewService constructs a Service for a match seed. The Mayor deck draws
// from `seed`, the Reality deck from `seed+1`, so the two pile orders
// stay independent. maxInitialSpades < 0 disables the starting-mine cap.
func NewService(seed int64, maxInitialSpades int) *Service {
	return &Service{
		mayorRNG:         rand.New(rand.NewSource(seed)),
		realityRNG:       rand.New(rand.NewSource(seed + 1)),
		maxInitialSpades: maxInitialSpades,
	}
}

// RandomSeed is what callers pass when no seed was requested explicitly.
func RandomSeed() int64 {
	return time.Now().UnixNano()
}

var (
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrMatchFull     = errors.New("match is full")
)

// NewMatch builds the lobby-phase state this Service will drive.
func (s *Service) NewMatch() *domain.MatchState {
	return domain.NewMatchState(nil, s.mayorRNG, s.realityRNG, s.maxInitialSpades)
}

// JoinPlayer seats a user on the first vacant role, or hands back the
// existing role on a reconnect. Joining is a lobby-only operation; a
// seated player may rejoin mid-match.
func (s *Service) JoinPlayer(state *domain.MatchState, userID string) (domain.Role, []Event, error) {
	if role, ok := state.RoleOf(userID); ok {
		return role, s.snapshots(state, role), nil
	}
	if state.Phase != domain.PhaseLobby {
		return "", nil, fmt.Errorf("match already started: %w", domain.ErrPhaseViolation)
	}
	for _, role := range domain.Roles {
		if _, taken := state.Players[role]; !taken {
			state.Players[role] = userID
			return role, s.snapshots(state), nil
		}
	}
	return "", nil, ErrMatchFull
}

// LeavePlayer frees the seat while the match is still forming. After the
// start roles are fixed; a missing player simply stalls the turn until
// they reconnect.
func (s *Service) LeavePlayer(state *domain.MatchState, userID string) []Event {
	role, ok := state.RoleOf(userID)
	if !ok || state.Phase != domain.PhaseLobby {
		return nil
	}
	delete(state.Players, role)
	return s.snapshots(state)
}

// StartMatch moves a fully seated lobby into the first Draw phase.
func (s *Service) StartMatch(state *domain.MatchState) ([]Event, error) {
	if state.Phase != domain.PhaseLobby {
		return nil, domain.ErrPhaseViolation
	}
	if len(state.Players) < RequiredPlayers {
		return nil, ErrTooFewPlayers
	}
	state.BeginTurn(s.mayorRNG)
	return s.snapshots(state), nil
}

// Reveal flips one Mayor hand card face-up. The second flip advances the
// match to Control; the first is private to the Mayor, so only the Mayor
// gets a fresh snapshot for it.
func (s *Service) Reveal(state *domain.MatchState, role domain.Role, index int) ([]Event, error) {
	if state.Phase != domain.PhaseDraw || role != domain.RoleMayor {
		return nil, domain.ErrPhaseViolation
	}
	if index < 0 || index >= len(state.MayorHand) {
		return nil, fmt.Errorf("hand slot %d: %w", index, domain.ErrInvalidIndex)
	}
	if state.IndexRevealed(index) {
		return nil, fmt.Errorf("hand slot %d already face-up: %w", index, domain.ErrInvalidIndex)
	}
	if len(state.RevealedIndices) >= domain.RevealsPerTurn {
		return nil, fmt.Errorf("both reveals spent: %w", domain.ErrInvalidIndex)
	}

	state.RevealedIndices = append(state.RevealedIndices, index)
	if len(state.RevealedIndices) < domain.RevealsPerTurn {
		return s.snapshots(state, domain.RoleMayor), nil
	}
	state.Phase = domain.PhaseControl
	return s.snapshots(state), nil
}

// ForceSuits binds each advisor to a claim suit for this turn and opens
// nominations.
func (s *Service) ForceSuits(state *domain.MatchState, role domain.Role, config domain.SuitConfig) ([]Event, error) {
	if state.Phase != domain.PhaseControl || role != domain.RoleMayor {
		return nil, domain.ErrPhaseViolation
	}
	if config != domain.SuitConfigUrbanistDiamonds && config != domain.SuitConfigUrbanistHearts {
		return nil, fmt.Errorf("unknown suit config %q: %w", config, domain.ErrInvalidIndex)
	}
	state.ControlMode = domain.ControlForceSuits
	state.ForcedSuitConfig = config
	state.Phase = domain.PhaseNominate
	return s.snapshots(state), nil
}

// ForceHexes pins each advisor's first nomination to a chosen frontier
// hex and opens nominations. The same hex may be forced on both.
func (s *Service) ForceHexes(state *domain.MatchState, role domain.Role, industryHex, urbanistHex domain.Hex) ([]Event, error) {
	if state.Phase != domain.PhaseControl || role != domain.RoleMayor {
		return nil, domain.ErrPhaseViolation
	}
	for _, h := range []domain.Hex{industryHex, urbanistHex} {
		if !domain.IsValidNomination(h, state.BuiltHexes) {
			return nil, fmt.Errorf("forced hex %s off the frontier: %w", h, domain.ErrIllegalNomination)
		}
	}
	state.ControlMode = domain.ControlForceHexes
	state.ForcedHexes = map[domain.Role]domain.Hex{
		domain.RoleIndustry: industryHex,
		domain.RoleUrbanist: urbanistHex,
	}
	state.Phase = domain.PhaseNominate
	return s.snapshots(state), nil
}

// Commit drops one sealed nomination into the acting advisor's envelope.
// Rejections leave the state untouched and reach only the caller; other
// players never learn a commit was attempted. Once both envelopes hold
// two entries they are revealed together and the match moves to Place.
func (s *Service) Commit(state *domain.MatchState, role domain.Role, hex domain.Hex, claimIdx int32) ([]Event, error) {
	if state.Phase != domain.PhaseNominate || !role.IsAdvisor() {
		return nil, domain.ErrPhaseViolation
	}
	commits := state.AdvisorCommits[role]
	if len(commits) >= domain.CommitsPerAdvisor {
		return nil, fmt.Errorf("envelope already holds %d: %w", len(commits), domain.ErrIllegalNomination)
	}
	claim, err := domain.CardFromIndex(claimIdx)
	if err != nil {
		return nil, err
	}
	if !state.TrayContains(role, claimIdx) {
		return nil, fmt.Errorf("claim %s not in tray: %w", claim.Label(), domain.ErrIllegalNomination)
	}
	if !domain.IsValidNomination(hex, state.BuiltHexes) {
		return nil, fmt.Errorf("hex %s not nominatable: %w", hex, domain.ErrIllegalNomination)
	}
	for _, c := range commits {
		if c.Hex == hex {
			return nil, fmt.Errorf("hex %s already committed: %w", hex, domain.ErrIllegalNomination)
		}
	}
	if err := s.checkControlConstraint(state, role, commits, hex, claim); err != nil {
		return nil, err
	}

	state.AdvisorCommits[role] = append(commits, domain.Nomination{Advisor: role, Hex: hex, Claim: claim})
	state.ConsumeClaim(role, claimIdx)

	if len(state.AdvisorCommits[domain.RoleIndustry]) < domain.CommitsPerAdvisor ||
		len(state.AdvisorCommits[domain.RoleUrbanist]) < domain.CommitsPerAdvisor {
		return s.snapshots(state, role), nil
	}

	// Simultaneous reveal, Industry's pair first.
	for _, advisor := range domain.AdvisorRoles {
		state.Nominations = append(state.Nominations, state.AdvisorCommits[advisor]...)
	}
	state.Phase = domain.PhasePlace

	events := []Event{{
		Kind:    EventNominationsRevealed,
		Payload: NominationsRevealedPayload{Nominations: append([]domain.Nomination(nil), state.Nominations...)},
	}}
	return append(events, s.snapshots(state)...), nil
}

// checkControlConstraint enforces the Mayor's control choice against a
// prospective commit. Forced hex binds the first commit; forced suit is
// settled retroactively on the second, waived when the tray cannot
// possibly satisfy it.
func (s *Service) checkControlConstraint(state *domain.MatchState, role domain.Role, commits []domain.Nomination, hex domain.Hex, claim domain.Card) error {
	switch state.ControlMode {
	case domain.ControlForceHexes:
		if len(commits) == 0 && hex != state.ForcedHexes[role] {
			return fmt.Errorf("first commit must target %s: %w", state.ForcedHexes[role], domain.ErrIllegalNomination)
		}
	case domain.ControlForceSuits:
		if len(commits) != 1 {
			return nil
		}
		forced, ok := state.ForcedSuitConfig.ForcedSuitFor(role)
		if !ok {
			return nil
		}
		if commits[0].Claim.Suit == forced || claim.Suit == forced {
			return nil
		}
		if !state.TrayHasSuit(role, forced) {
			return nil
		}
		return fmt.Errorf("one claim must be %s: %w", forced, domain.ErrIllegalNomination)
	}
	return nil
}

// Place resolves the turn: the Mayor builds a hand card onto a nominated
// hex, fog expands, the scoring ladder runs, and the win monitor decides
// between the next Draw and GameOver.
func (s *Service) Place(state *domain.MatchState, role domain.Role, cardIndex int, hex domain.Hex) ([]Event, error) {
	if state.Phase != domain.PhasePlace || role != domain.RoleMayor {
		return nil, domain.ErrPhaseViolation
	}
	if cardIndex < 0 || cardIndex >= len(state.MayorHand) {
		return nil, fmt.Errorf("hand slot %d: %w", cardIndex, domain.ErrInvalidIndex)
	}
	if !state.NominatedHex(hex) {
		return nil, fmt.Errorf("hex %s not nominated: %w", hex, domain.ErrIllegalNomination)
	}

	placed := state.MayorHand[cardIndex]
	state.MayorHand = append(state.MayorHand[:cardIndex], state.MayorHand[cardIndex+1:]...)
	state.MayorDeck.PutDiscard(placed)

	reality := state.RevealTile(hex, s.realityRNG)
	state.BuiltHexes = append(state.BuiltHexes, hex)
	newly := state.RevealAround(hex, s.realityRNG)

	res := domain.ResolvePlacement(placed, hex, state.Nominations, state.Reality)
	for r, d := range res.Deltas {
		state.Scores[r] += d
	}

	state.TurnHistory = append(state.TurnHistory, domain.TurnRecord{
		Turn:             state.TurnIndex,
		Kind:             domain.TurnRecordBuild,
		RevealedIndices:  state.RevealedIndices,
		ControlMode:      state.ControlMode,
		ForcedSuitConfig: state.ForcedSuitConfig,
		ForcedHexes:      state.ForcedHexes,
		Nominations:      state.Nominations,
		Hex:              hex,
		PlacedCard:       placed,
		Reality:          reality,
		ScoreDeltas:      res.Deltas,
		Audit:            res.Audit,
	})

	if res.IsMine {
		state.MayorHitMine = true
	} else {
		switch reality.Suit {
		case domain.SuitHearts:
			state.Facilities.Hearts++
		case domain.SuitDiamonds:
			state.Facilities.Diamonds++
		}
		if state.Facilities.Hearts >= domain.FacilitiesToComplete &&
			state.Facilities.Diamonds >= domain.FacilitiesToComplete {
			state.CityComplete = true
		}
	}

	events := make([]Event, 0, 8)
	if len(newly) > 0 {
		reveals := make([]TileReveal, 0, len(newly))
		for _, h := range newly {
			reveals = append(reveals, TileReveal{Hex: h, Reality: state.Reality[h]})
		}
		events = append(events, Event{
			Kind:       EventFogRevealed,
			Payload:    FogRevealedPayload{Hexes: reveals},
			Recipients: s.advisorIDs(state),
		})
	}

	if state.Terminal() {
		state.Phase = domain.PhaseGameOver
		state.Winners = domain.DetermineWinners(state.Scores, state.MayorHitMine)
	} else {
		state.TurnIndex++
	}

	events = append(events, Event{
		Kind: EventTurnResolved,
		Payload: TurnResolvedPayload{
			Turn:       state.TurnHistory[len(state.TurnHistory)-1].Turn,
			Hex:        hex,
			PlacedCard: placed,
			Reality:    reality,
			Deltas:     res.Deltas,
			Scores:     copyScores(state.Scores),
			Facilities: state.Facilities,
			Audit:      res.Audit,
			NextPhase:  nextPhaseAfterPlace(state),
		},
	})

	if state.Phase == domain.PhaseGameOver {
		events = append(events, Event{
			Kind: EventGameOver,
			Payload: GameOverPayload{
				Winners:      append([]domain.Role(nil), state.Winners...),
				Scores:       copyScores(state.Scores),
				MayorHitMine: state.MayorHitMine,
				CityComplete: state.CityComplete,
			},
		})
	} else {
		state.BeginTurn(s.mayorRNG)
	}

	return append(events, s.snapshots(state)...), nil
}

// Verify spends the turn inspecting one nominated hex instead of
// building. The reality found stays between the engine and the Mayor.
func (s *Service) Verify(state *domain.MatchState, role domain.Role, hex domain.Hex) ([]Event, error) {
	if state.Phase != domain.PhasePlace || role != domain.RoleMayor {
		return nil, domain.ErrPhaseViolation
	}
	if !state.NominatedHex(hex) {
		return nil, fmt.Errorf("hex %s not nominated: %w", hex, domain.ErrIllegalNomination)
	}
	if state.VerifiedHexes[hex] {
		return nil, fmt.Errorf("hex %s already verified: %w", hex, domain.ErrIllegalNomination)
	}

	reality := state.RevealTile(hex, s.realityRNG)
	state.VerifiedHexes[hex] = true
	state.TurnHistory = append(state.TurnHistory, domain.TurnRecord{
		Turn:             state.TurnIndex,
		Kind:             domain.TurnRecordVerify,
		RevealedIndices:  state.RevealedIndices,
		ControlMode:      state.ControlMode,
		ForcedSuitConfig: state.ForcedSuitConfig,
		ForcedHexes:      state.ForcedHexes,
		Hex:              hex,
	})
	state.TurnIndex++
	state.BeginTurn(s.mayorRNG)

	events := []Event{{
		Kind:       EventVerifyResult,
		Payload:    VerifyResultPayload{Hex: hex, Reality: reality},
		Recipients: []string{state.Players[domain.RoleMayor]},
	}}
	return append(events, s.snapshots(state)...), nil
}

// snapshots builds one targeted snapshot event per seated role, or per
// given role when the update is private.
func (s *Service) snapshots(state *domain.MatchState, roles ...domain.Role) []Event {
	if len(roles) == 0 {
		roles = domain.Roles
	}
	events := make([]Event, 0, len(roles))
	for _, role := range roles {
		userID, ok := state.Players[role]
		if !ok {
			continue
		}
		events = append(events, Event{
			Kind:       EventSnapshot,
			Payload:    SnapshotPayload{View: View(state, role)},
			Recipients: []string{userID},
		})
	}
	return events
}

func (s *Service) advisorIDs(state *domain.MatchState) []string {
	ids := make([]string, 0, len(domain.AdvisorRoles))
	for _, role := range domain.AdvisorRoles {
		if id, ok := state.Players[role]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func copyScores(scores map[domain.Role]int) map[domain.Role]int {
	out := make(map[domain.Role]int, len(scores))
	for r, v := range scores {
		out[r] = v
	}
	return out
}

func nextPhaseAfterPlace(state *domain.MatchState) domain.Phase {
	if state.Phase == domain.PhaseGameOver {
		return domain.PhaseGameOver
	}
	return domain.PhaseDraw
}
