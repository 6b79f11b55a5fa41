package ports

import "context"

// StandingsRecord is one row of the global ladder.
type StandingsRecord struct {
	UserID   string
	Username string
	Score    int64
	Rank     int64
}

// StandingsPort records final match scores on the global ladder.
type StandingsPort interface {
	// RecordScore submits one player's final match score.
	// metadata travels with the record for later display (role, outcome).
	RecordScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error

	// TopRecords returns up to limit entries from the head of the ladder.
	TopRecords(ctx context.Context, limit int) ([]StandingsRecord, error)
}
