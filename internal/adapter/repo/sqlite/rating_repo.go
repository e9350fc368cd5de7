package sqliterepo

import (
	"context"
	"database/sql"
	"strings"

	"molttactics/internal/domain/rating"
)

const recordColumns = "agent_id, rating, wins, losses, trust, honors, betrayals"

type RatingRepo struct {
	db *sql.DB
}

func NewRatingRepo(db *sql.DB) RatingRepo {
	return RatingRepo{db: db}
}

func (r RatingRepo) LoadRatings(ctx context.Context, agentIDs ...string) (map[string]rating.Record, error) {
	q := "SELECT " + recordColumns + " FROM agents"
	var args []any
	if len(agentIDs) > 0 {
		q += " WHERE agent_id IN (" + placeholders(len(agentIDs)) + ")"
		args = stringArgs(agentIDs)
	}
	return r.query(ctx, q, args...)
}

func (r RatingRepo) SaveRatings(ctx context.Context, records map[string]rating.Record) error {
	q := getQuerier(ctx, r.db)
	for id, rec := range records {
		_, err := q.ExecContext(ctx, `INSERT INTO agents (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(agent_id) DO UPDATE SET
				rating = excluded.rating, wins = excluded.wins, losses = excluded.losses,
				trust = excluded.trust, honors = excluded.honors, betrayals = excluded.betrayals`,
			id, rec.Rating, rec.Wins, rec.Losses, rec.Trust, rec.Honors, rec.Betrayals)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r RatingRepo) LoadSeasonRatings(ctx context.Context, season string, agentIDs ...string) (map[string]rating.Record, error) {
	q := "SELECT " + recordColumns + " FROM season_agents WHERE season = ?"
	args := []any{season}
	if len(agentIDs) > 0 {
		q += " AND agent_id IN (" + placeholders(len(agentIDs)) + ")"
		args = append(args, stringArgs(agentIDs)...)
	}
	return r.query(ctx, q, args...)
}

func (r RatingRepo) SaveSeasonRatings(ctx context.Context, season string, records map[string]rating.Record) error {
	q := getQuerier(ctx, r.db)
	for id, rec := range records {
		_, err := q.ExecContext(ctx, `INSERT INTO season_agents (season, `+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(season, agent_id) DO UPDATE SET
				rating = excluded.rating, wins = excluded.wins, losses = excluded.losses,
				trust = excluded.trust, honors = excluded.honors, betrayals = excluded.betrayals`,
			season, id, rec.Rating, rec.Wins, rec.Losses, rec.Trust, rec.Honors, rec.Betrayals)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r RatingRepo) query(ctx context.Context, q string, args ...any) (map[string]rating.Record, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]rating.Record{}
	for rows.Next() {
		var rec rating.Record
		if err := rows.Scan(&rec.AgentID, &rec.Rating, &rec.Wins, &rec.Losses, &rec.Trust, &rec.Honors, &rec.Betrayals); err != nil {
			return nil, err
		}
		out[rec.AgentID] = rec
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
