package nakama

import (
	"context"
	"fmt"

	"collapsization/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaStandingsAdapter implements ports.StandingsPort on a Nakama leaderboard.
type NakamaStandingsAdapter struct {
	nk            runtime.NakamaModule
	leaderboardID string
}

// NewNakamaStandingsAdapter creates a new standings adapter.
func NewNakamaStandingsAdapter(nk runtime.NakamaModule, leaderboardID string) *NakamaStandingsAdapter {
	return &NakamaStandingsAdapter{nk: nk, leaderboardID: leaderboardID}
}

// RecordScore submits one player's final match score. The leaderboard keeps
// each owner's best, so losing runs never overwrite a prior high score.
func (a *NakamaStandingsAdapter) RecordScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error {
	_, err := a.nk.LeaderboardRecordWrite(ctx, a.leaderboardID, userID, username, score, 0, metadata, nil)
	if err != nil {
		return fmt.Errorf("failed to write standings record for user %s: %w", userID, err)
	}
	return nil
}

// TopRecords returns up to limit entries from the head of the ladder.
func (a *NakamaStandingsAdapter) TopRecords(ctx context.Context, limit int) ([]ports.StandingsRecord, error) {
	records, _, _, _, err := a.nk.LeaderboardRecordsList(ctx, a.leaderboardID, nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings records: %w", err)
	}

	out := make([]ports.StandingsRecord, 0, len(records))
	for _, record := range records {
		out = append(out, ports.StandingsRecord{
			UserID:   record.OwnerId,
			Username: record.Username.GetValue(),
			Score:    record.Score,
			Rank:     record.Rank,
		})
	}
	return out, nil
}

var _ ports.StandingsPort = (*NakamaStandingsAdapter)(nil)
