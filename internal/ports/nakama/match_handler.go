package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"collapsization/internal/app"
	"collapsization/internal/bot"
	"collapsization/internal/config"
	"collapsization/internal/domain"
	"collapsization/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSeats = "open"    // Key for the open seats in the match label
	MatchLabelKey_Phase     = "phase"   // Coarse state: lobby, playing or done
	MatchLabelKey_Players   = "players" // Seated players, humans and bots
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Tick                 int64                       `json:"tick"`                    // Current tick of the match for timed logic
	Presences            map[string]runtime.Presence `json:"-"`                       // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`                       // Rules engine driving this match
	Game                 *domain.MatchState          `json:"-"`                       // Authoritative game state, in lobby phase until seated
	Tokens               *app.ResultTokenService     `json:"-"`                       // Signs per-player result attestations at game over
	Standings            ports.StandingsPort         `json:"-"`                       // Interface to the Nakama leaderboard
	MatchID              string                      `json:"match_id"`                // This match's id, embedded in tokens and records
	BotsEnabled          bool                        `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                         `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                         `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`     // Seconds to wait before adding bots to a waiting lobby
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the acting bot should move
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when humans started waiting on empty seats
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents keyed by user id
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Game.Players)
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, userId := range ms.Game.Players {
		if !ms.isBotUserId(userId) {
			count++
		}
	}
	return count
}

// GetOpenSeatsCount reports how many seats a joining human could take:
// vacant roles plus bot-held roles while the lobby forms, none once the
// match has started.
func (ms *MatchState) GetOpenSeatsCount() int {
	if ms.Game.Phase != domain.PhaseLobby {
		return 0
	}
	return app.RequiredPlayers - ms.GetHumanPlayerCount()
}

// isBotUserId reports whether the given user id represents a bot seat.
func (ms *MatchState) isBotUserId(userId string) bool {
	if _, active := ms.Bots[userId]; active {
		return true
	}
	return bot.IsBot(userId)
}

// findReplaceableBot returns a bot-held seat's user id, if any.
func (ms *MatchState) findReplaceableBot() (string, bool) {
	for _, role := range domain.Roles {
		if userId, ok := ms.Game.Players[role]; ok && ms.isBotUserId(userId) {
			return userId, true
		}
	}
	return "", false
}

// shouldTerminateNoHumans reports whether no human players remain connected.
func (ms *MatchState) shouldTerminateNoHumans() bool {
	return len(ms.Presences) == 0
}

// nextBotActor returns the bot expected to act in the current phase, if
// any. During Nominate either advisor may commit, so a bot advisor with
// room in its envelope never waits on the human one.
func (ms *MatchState) nextBotActor() (string, domain.Role, bool) {
	switch ms.Game.Phase {
	case domain.PhaseDraw, domain.PhaseControl, domain.PhasePlace:
		userId, ok := ms.Game.Players[domain.RoleMayor]
		if ok && ms.isBotUserId(userId) {
			return userId, domain.RoleMayor, true
		}
	case domain.PhaseNominate:
		for _, advisor := range domain.AdvisorRoles {
			if len(ms.Game.AdvisorCommits[advisor]) >= domain.CommitsPerAdvisor {
				continue
			}
			userId, ok := ms.Game.Players[advisor]
			if ok && ms.isBotUserId(userId) {
				return userId, advisor, true
			}
		}
	}
	return "", "", false
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	// Load bot identities and game tunables from the data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	cfg := config.DefaultGameConfig()
	if c := config.GetGameConfig(); c != nil {
		cfg = *c
	}

	// Environment overrides for per-deployment tuning
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["collapsization_bots_enabled"]; ok {
		cfg.BotsEnabled = val == "true"
	}
	if val, ok := env["collapsization_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.BotMinDelaySeconds = i
		}
	}
	if val, ok := env["collapsization_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.BotMaxDelaySeconds = i
		}
	}
	if val, ok := env["collapsization_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.BotAutoFillDelaySeconds = i
		}
	}
	if val, ok := env["collapsization_max_initial_spades"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.MaxInitialSpades = i
		}
	}

	// Per-match creation params win over config and env
	seed := app.RandomSeed()
	if v, ok := paramInt64(params, "seed"); ok {
		seed = v
	}
	if v, ok := paramInt64(params, "max_initial_spades"); ok {
		cfg.MaxInitialSpades = int(v)
	}

	// Result token credentials come from the runtime environment
	issuer := env["collapsization_result_issuer"]
	if issuer == "" {
		logger.Warn("MatchInit: collapsization_result_issuer not set, using test issuer")
		issuer = "collapsization-dev"
	}
	secret := env["collapsization_result_secret"]
	if secret == "" {
		logger.Warn("MatchInit: collapsization_result_secret not set, using test secret")
		secret = "insecure-dev-secret"
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	service := app.NewService(seed, cfg.MaxInitialSpades)
	state := &MatchState{
		Tick:             time.Now().Unix(),
		Presences:        make(map[string]runtime.Presence),
		App:              service,
		Game:             service.NewMatch(),
		Tokens:           app.NewResultTokenService(secret, issuer),
		Standings:        NewNakamaStandingsAdapter(nk, config.GetLeaderboardID()),
		MatchID:          matchID,
		BotsEnabled:      cfg.BotsEnabled,
		BotMinDelay:      cfg.BotMinDelaySeconds,
		BotMaxDelay:      cfg.BotMaxDelaySeconds,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Bots:             make(map[string]*bot.Agent),
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // One tick per second drives bot pacing and lobby auto-fill
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always reconnect, mid-match included.
	if _, seated := matchState.Game.RoleOf(presence.GetUserId()); seated {
		return matchState, true, ""
	}

	if matchState.Game.Phase != domain.PhaseLobby {
		return matchState, false, "Match already started"
	}

	// Open seats count bot-held roles, which MatchJoin hands over.
	if matchState.GetOpenSeatsCount() <= 0 {
		return matchState, false, "Match full"
	}

	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		// Store presence
		matchState.Presences[p.GetUserId()] = p

		role, events, err := matchState.App.JoinPlayer(matchState.Game, p.GetUserId())
		if errors.Is(err, app.ErrMatchFull) {
			// Lobby filled with AI: hand a bot seat to the human.
			if botID, found := matchState.findReplaceableBot(); found {
				logger.Info("MatchJoin: Replacing bot %s with human %s", botID, p.GetUserId())
				matchState.App.LeavePlayer(matchState.Game, botID)
				delete(matchState.Bots, botID)
				role, events, err = matchState.App.JoinPlayer(matchState.Game, p.GetUserId())
			}
		}
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but no seat was available: %v", p.GetUserId(), err)
			continue
		}

		logger.Info("MatchJoin: User %s seated as %s", p.GetUserId(), role)
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
	}

	// Update match label
	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// A lobby leaver frees the seat. After the start roles are fixed
		// and the leaver may reconnect into their role; the turn waits.
		events := matchState.App.LeavePlayer(matchState.Game, p.GetUserId())
		if len(events) > 0 {
			logger.Debug("MatchLeave: User %s left, seat freed.", p.GetUserId())
		}
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
	}

	if matchState.shouldTerminateNoHumans() {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Handle incoming messages
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpReveal:
			mh.handleReveal(ctx, matchState, dispatcher, logger, msg)
		case OpControl:
			mh.handleControl(ctx, matchState, dispatcher, logger, msg)
		case OpCommit:
			mh.handleCommit(ctx, matchState, dispatcher, logger, msg)
		case OpBuild:
			mh.handleBuild(ctx, matchState, dispatcher, logger, msg)
		case OpVerify:
			mh.handleVerify(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.maybeStart(ctx, matchState, dispatcher, logger)

	// AI Logic
	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
		// Bots may have just completed the lobby
		mh.maybeStart(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// maybeStart moves a fully seated lobby into the first Draw turn. There is
// no explicit start message; the third seated role begins the match.
func (mh *matchHandler) maybeStart(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game.Phase != domain.PhaseLobby || state.GetOccupiedSeatCount() < app.RequiredPlayers {
		return
	}

	events, err := state.App.StartMatch(state.Game)
	if err != nil {
		logger.Error("MatchLoop: Failed to start match: %v", err)
		return
	}

	logger.Info("MatchLoop: All roles seated, match started (mayor=%s).", state.Game.Players[domain.RoleMayor])
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots when humans are stuck waiting
	if state.Game.Phase == domain.PhaseLobby {
		if state.GetHumanPlayerCount() >= 1 && state.GetOccupiedSeatCount() < app.RequiredPlayers {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Humans waiting on empty seats, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				mh.fillSeatsWithBots(ctx, state, dispatcher, logger)
				// Reset timer so a partial fill waits out a fresh delay
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle the acting bot's move in-game
	if state.Game.Phase == domain.PhaseGameOver {
		return
	}

	actorID, role, isBotTurn := state.nextBotActor()
	if !isBotTurn {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		spread := state.BotMaxDelay - state.BotMinDelay + 1
		if spread < 1 {
			spread = 1
		}
		delay := rand.Intn(spread) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s (%s) will act at tick %d (current %d)", actorID, role, state.BotWaitUntil, state.Tick)
		return
	}

	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0 // Reset for the next action

	agent, exists := state.Bots[actorID]
	if !exists {
		// Fallback if agent missing (shouldn't happen for filled seats)
		var err error
		agent, err = bot.NewAgent(actorID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[actorID] = agent
	}

	intent, err := agent.Plan(app.View(state.Game, role))
	if err != nil {
		logger.Error("processBots: Bot %s failed to plan: %v", agent.Name, err)
		return
	}
	if intent.Kind == bot.IntentNone {
		return
	}

	events, err := mh.applyIntent(state, role, intent)
	if err != nil {
		logger.Warn("processBots: Bot %s intent %s rejected: %v", agent.Name, intent.Kind, err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// fillSeatsWithBots seats identities from the bot pool until every role is
// taken.
func (mh *matchHandler) fillSeatsWithBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	added := false
	for i := 0; i < app.RequiredPlayers && state.GetOccupiedSeatCount() < app.RequiredPlayers; i++ {
		identity := bot.GetBotIdentity(i)
		botID := identity.UserID
		if _, seated := state.Game.RoleOf(botID); seated {
			continue
		}

		agent, err := bot.NewAgent(botID)
		if err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
			continue
		}

		role, events, err := state.App.JoinPlayer(state.Game, botID)
		if err != nil {
			logger.Warn("processBots: Could not seat bot %s: %v", botID, err)
			continue
		}

		state.Bots[botID] = agent
		logger.Info("processBots: Added bot %s (%s) as %s", identity.Username, botID, role)
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		added = true
	}

	if added {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// applyIntent funnels a bot action through the same app operations human
// messages reach, so bots obey every rule humans do.
func (mh *matchHandler) applyIntent(state *MatchState, role domain.Role, intent bot.Intent) ([]app.Event, error) {
	switch intent.Kind {
	case bot.IntentReveal:
		return state.App.Reveal(state.Game, role, intent.HandIndex)
	case bot.IntentForceSuits:
		return state.App.ForceSuits(state.Game, role, intent.SuitConfig)
	case bot.IntentForceHexes:
		return state.App.ForceHexes(state.Game, role, intent.IndustryHex, intent.UrbanistHex)
	case bot.IntentCommit:
		return state.App.Commit(state.Game, role, intent.Hex, intent.ClaimIndex)
	case bot.IntentBuild:
		return state.App.Place(state.Game, role, intent.HandIndex, intent.Hex)
	case bot.IntentVerify:
		return state.App.Verify(state.Game, role, intent.Hex)
	default:
		return nil, fmt.Errorf("unhandled intent kind %q", intent.Kind)
	}
}

// senderRole resolves the sender's seat and decodes the message fields,
// reporting failures straight back to the sender.
func (mh *matchHandler) senderRole(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) (domain.Role, map[string]interface{}, bool) {
	senderID := msg.GetUserId()
	role, seated := state.Game.RoleOf(senderID)
	if !seated {
		mh.sendError(state, dispatcher, logger, senderID, 400, "not seated in this match")
		return "", nil, false
	}

	fields, err := bytesToMap(msg.GetData())
	if err != nil {
		logger.Warn("MatchLoop: Malformed payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "malformed payload")
		return "", nil, false
	}
	return role, fields, true
}

func (mh *matchHandler) handleReveal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	role, fields, ok := mh.senderRole(state, dispatcher, logger, msg)
	if !ok {
		return
	}

	index, ok := intField(fields, "index")
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, 400, "reveal needs an index field")
		return
	}

	events, err := state.App.Reveal(state.Game, role, index)
	if err != nil {
		logger.Warn("handleReveal: User %s (%s) rejected: %v", senderID, role, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleControl(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	role, fields, ok := mh.senderRole(state, dispatcher, logger, msg)
	if !ok {
		return
	}

	mode, _ := stringField(fields, "mode")

	var events []app.Event
	var err error
	switch domain.ControlMode(mode) {
	case domain.ControlForceSuits:
		suitConfig, found := stringField(fields, "suit_config")
		if !found {
			mh.sendError(state, dispatcher, logger, senderID, 400, "force_suits needs a suit_config field")
			return
		}
		events, err = state.App.ForceSuits(state.Game, role, domain.SuitConfig(suitConfig))
	case domain.ControlForceHexes:
		industryHex, okInd := hexField(fields, "industry_hex")
		urbanistHex, okUrb := hexField(fields, "urbanist_hex")
		if !okInd || !okUrb {
			mh.sendError(state, dispatcher, logger, senderID, 400, "force_hexes needs industry_hex and urbanist_hex fields")
			return
		}
		events, err = state.App.ForceHexes(state.Game, role, industryHex, urbanistHex)
	default:
		mh.sendError(state, dispatcher, logger, senderID, 400, fmt.Sprintf("unknown control mode %q", mode))
		return
	}

	if err != nil {
		logger.Warn("handleControl: User %s (%s) rejected: %v", senderID, role, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleCommit(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	role, fields, ok := mh.senderRole(state, dispatcher, logger, msg)
	if !ok {
		return
	}

	hex, okHex := hexField(fields, "hex")
	claim, okClaim := int32Field(fields, "claim")
	if !okHex || !okClaim {
		mh.sendError(state, dispatcher, logger, senderID, 400, "commit needs hex and claim fields")
		return
	}

	events, err := state.App.Commit(state.Game, role, hex, claim)
	if err != nil {
		// Rejections stay between the engine and the advisor; nothing of
		// the sealed commit leaks to the other players.
		logger.Warn("handleCommit: User %s (%s) rejected: %v", senderID, role, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleBuild(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	role, fields, ok := mh.senderRole(state, dispatcher, logger, msg)
	if !ok {
		return
	}

	cardIndex, okCard := intField(fields, "card_index")
	hex, okHex := hexField(fields, "hex")
	if !okCard || !okHex {
		mh.sendError(state, dispatcher, logger, senderID, 400, "build needs card_index and hex fields")
		return
	}

	events, err := state.App.Place(state.Game, role, cardIndex, hex)
	if err != nil {
		logger.Warn("handleBuild: User %s (%s) rejected: %v", senderID, role, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleVerify(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	role, fields, ok := mh.senderRole(state, dispatcher, logger, msg)
	if !ok {
		return
	}

	hex, okHex := hexField(fields, "hex")
	if !okHex {
		mh.sendError(state, dispatcher, logger, senderID, 400, "verify needs a hex field")
		return
	}

	events, err := state.App.Verify(state.Game, role, hex)
	if err != nil {
		logger.Warn("handleVerify: User %s (%s) rejected: %v", senderID, role, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// errorCode maps engine rejections onto the client-facing code space.
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidIndex):
		return 400
	case errors.Is(err, domain.ErrIllegalNomination):
		return 422
	case errors.Is(err, domain.ErrPhaseViolation):
		return 409
	default:
		return 500
	}
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if ev.Kind == app.EventGameOver {
		mh.deliverGameOver(ctx, state, dispatcher, logger, ev)
		return
	}

	var opCode int64
	switch ev.Kind {
	case app.EventSnapshot:
		opCode = OpSnapshot
	case app.EventFogRevealed:
		opCode = OpFogRevealed
	case app.EventNominationsRevealed:
		opCode = OpNominationsRevealed
	case app.EventTurnResolved:
		opCode = OpTurnResolved
	case app.EventVerifyResult:
		opCode = OpVerifyResult
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := payloadToBytes(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// deliverGameOver personalizes the terminal event: every connected player
// receives the shared outcome plus their own signed result token, and each
// human's final score goes onto the standings ladder.
func (mh *matchHandler) deliverGameOver(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	payload, ok := ev.Payload.(app.GameOverPayload)
	if !ok {
		logger.Error("deliverGameOver: unexpected payload type %T", ev.Payload)
		return
	}

	won := make(map[domain.Role]bool, len(payload.Winners))
	for _, role := range payload.Winners {
		won[role] = true
	}

	for role, userId := range state.Game.Players {
		score := state.Game.Scores[role]

		if !state.isBotUserId(userId) && state.Standings != nil {
			username := userId
			if p, exists := state.Presences[userId]; exists {
				username = p.GetUsername()
			}
			outcome := "loss"
			if won[role] {
				outcome = "win"
			}
			err := state.Standings.RecordScore(ctx, userId, username, int64(score), map[string]interface{}{
				"match_id": state.MatchID,
				"role":     string(role),
				"outcome":  outcome,
			})
			if err != nil {
				logger.Error("deliverGameOver: Failed to record standings for %s: %v", userId, err)
			}
		}

		presence, connected := state.Presences[userId]
		if !connected {
			continue
		}

		personal := payload
		token, err := state.Tokens.GenerateToken(state.MatchID, userId, role, score, won[role])
		if err != nil {
			logger.Warn("deliverGameOver: No result token for %s: %v", userId, err)
		} else {
			personal.ResultToken = token
		}

		bytes, err := payloadToBytes(personal)
		if err != nil {
			logger.Error("deliverGameOver: Failed to marshal for %s: %v", userId, err)
			continue
		}
		dispatcher.BroadcastMessage(OpGameOver, bytes, []runtime.Presence{presence}, nil, true)
	}

	mh.updateLabel(state, dispatcher, logger)
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := payloadToBytes(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

// matchLabel renders the queryable label: open seats, coarse phase, seated count.
func matchLabel(state *MatchState) (string, error) {
	st, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		MatchLabelKey_Phase:     labelPhase(state.Game.Phase),
		MatchLabelKey_Players:   state.GetOccupiedSeatCount(),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(st)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func labelPhase(phase domain.Phase) string {
	switch phase {
	case domain.PhaseLobby:
		return "lobby"
	case domain.PhaseGameOver:
		return "done"
	default:
		return "playing"
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// paramInt64 reads a numeric match-creation param, tolerating the types the
// runtime delivers (float64 when created through an RPC's json payload,
// native ints when created server-side).
func paramInt64(params map[string]interface{}, key string) (int64, bool) {
	switch v := params[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
