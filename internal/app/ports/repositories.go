package ports

import (
	"context"

	"molttactics/internal/domain/rating"
)

// MatchSummary is the durable record of a finished match.
type MatchSummary struct {
	MatchID string  `json:"match_id"`
	Seed    int64   `json:"seed"`
	EndedAt int64   `json:"ended_at"`
	Winner  *string `json:"winner"`
	Season  string  `json:"season"`
}

// RatingRepository stores all-time and per-season rating records. Loads
// with agent ids return only those agents; with none they return every
// record. Saves upsert the given records and leave the rest untouched.
type RatingRepository interface {
	LoadRatings(ctx context.Context, agentIDs ...string) (map[string]rating.Record, error)
	SaveRatings(ctx context.Context, records map[string]rating.Record) error
	LoadSeasonRatings(ctx context.Context, season string, agentIDs ...string) (map[string]rating.Record, error)
	SaveSeasonRatings(ctx context.Context, season string, records map[string]rating.Record) error
}

type MatchSummaryRepository interface {
	AppendMatchSummary(ctx context.Context, summary MatchSummary) error
	// ListRecentMatchSummaries returns at most limit summaries, newest first.
	ListRecentMatchSummaries(ctx context.Context, limit int) ([]MatchSummary, error)
}
