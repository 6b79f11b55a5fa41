package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"collapsization/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	standingsDefaultLimit = 10
	standingsMaxLimit     = 100
)

// standingsRequest narrows the ladder slice a client asks for.
type standingsRequest struct {
	Limit int `json:"limit"`
}

// StandingsEntry is one client-facing row of the global ladder.
type StandingsEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Rank     int64  `json:"rank"`
}

// StandingsResponse is the payload returned by the standings RPC.
type StandingsResponse struct {
	Records []StandingsEntry `json:"records"`
}

func rpcStandings(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	limit := standingsDefaultLimit
	if payload != "" {
		var req standingsRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcStandings: Ignoring malformed payload: %v", err)
		} else if req.Limit > 0 {
			limit = req.Limit
		}
	}
	if limit > standingsMaxLimit {
		limit = standingsMaxLimit
	}

	standings := NewNakamaStandingsAdapter(nk, config.GetLeaderboardID())
	records, err := standings.TopRecords(ctx, limit)
	if err != nil {
		logger.Error("rpcStandings: Failed to list records: %v", err)
		return "", err
	}

	resp := StandingsResponse{Records: make([]StandingsEntry, 0, len(records))}
	for _, record := range records {
		resp.Records = append(resp.Records, StandingsEntry{
			UserID:   record.UserID,
			Username: record.Username,
			Score:    record.Score,
			Rank:     record.Rank,
		})
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
