package memory

import (
	"context"

	"molttactics/internal/app/ports"
)

type MatchSummaryRepo struct {
	store *Store
}

func NewMatchSummaryRepo(store *Store) MatchSummaryRepo {
	return MatchSummaryRepo{store: store}
}

func (r MatchSummaryRepo) AppendMatchSummary(ctx context.Context, summary ports.MatchSummary) error {
	return r.store.view(ctx, true, func(d *data) error {
		for _, s := range d.summaries {
			if s.MatchID == summary.MatchID {
				return ports.ErrConflict
			}
		}
		d.summaries = append(d.summaries, summary)
		return nil
	})
}

func (r MatchSummaryRepo) ListRecentMatchSummaries(ctx context.Context, limit int) ([]ports.MatchSummary, error) {
	var out []ports.MatchSummary
	err := r.store.view(ctx, false, func(d *data) error {
		out = make([]ports.MatchSummary, 0, min(limit, len(d.summaries)))
		for i := len(d.summaries) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, d.summaries[i])
		}
		return nil
	})
	return out, err
}
