package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"collapsization/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// quickMatchRequest carries optional match-creation overrides. They only
// apply when the request ends up creating a fresh match.
type quickMatchRequest struct {
	Seed             *int64 `json:"seed,omitempty"`
	MaxInitialSpades *int   `json:"max_initial_spades,omitempty"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcStandings, rpcStandings)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// Find a forming lobby with a seat a human can take.
	// +label.open means we are filtering on the "open" key in the JSON label,
	// :>=1 means the value must be greater than or equal to 1.
	query := fmt.Sprintf("+label.%s:>=1 +label.%s:lobby", MatchLabelKey_OpenSeats, MatchLabelKey_Phase)

	limit := 10
	authoritative := true

	// Sizes count connected presences; bots hold seats without one.
	minSize := 0
	maxSize := app.RequiredPlayers - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		matchID := matches[0].MatchId
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userId, matchID)
		b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: false})
		return string(b), nil
	}

	// No open lobby: create one. Seat assignment happens in MatchJoin
	// (server-authoritative).
	params := map[string]interface{}{}
	if payload != "" {
		var req quickMatchRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcQuickMatch [User:%s]: Ignoring malformed payload: %v", userId, err)
		} else {
			if req.Seed != nil {
				params["seed"] = *req.Seed
			}
			if req.MaxInitialSpades != nil {
				params["max_initial_spades"] = *req.MaxInitialSpades
			}
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameCollapsization, params)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userId, matchID)
	b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}
