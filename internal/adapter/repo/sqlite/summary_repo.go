package sqliterepo

import (
	"context"
	"database/sql"

	"molttactics/internal/app/ports"
)

type MatchSummaryRepo struct {
	db *sql.DB
}

func NewMatchSummaryRepo(db *sql.DB) MatchSummaryRepo {
	return MatchSummaryRepo{db: db}
}

func (r MatchSummaryRepo) AppendMatchSummary(ctx context.Context, s ports.MatchSummary) error {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO matches (match_id, seed, ended_at, winner, season) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(match_id) DO NOTHING`,
		s.MatchID, s.Seed, s.EndedAt, s.Winner, s.Season)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r MatchSummaryRepo) ListRecentMatchSummaries(ctx context.Context, limit int) ([]ports.MatchSummary, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx,
		`SELECT match_id, seed, ended_at, winner, season FROM matches ORDER BY ended_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.MatchSummary
	for rows.Next() {
		var (
			s      ports.MatchSummary
			winner sql.NullString
		)
		if err := rows.Scan(&s.MatchID, &s.Seed, &s.EndedAt, &winner, &s.Season); err != nil {
			return nil, err
		}
		if winner.Valid {
			w := winner.String
			s.Winner = &w
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
