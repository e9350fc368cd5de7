package memory

import (
	"context"

	"molttactics/internal/domain/rating"
)

type RatingRepo struct {
	store *Store
}

func NewRatingRepo(store *Store) RatingRepo {
	return RatingRepo{store: store}
}

func (r RatingRepo) LoadRatings(ctx context.Context, agentIDs ...string) (map[string]rating.Record, error) {
	var out map[string]rating.Record
	err := r.store.view(ctx, false, func(d *data) error {
		out = pick(d.ratings, agentIDs)
		return nil
	})
	return out, err
}

func (r RatingRepo) SaveRatings(ctx context.Context, records map[string]rating.Record) error {
	return r.store.view(ctx, true, func(d *data) error {
		for id, rec := range records {
			rec.AgentID = id
			d.ratings[id] = rec
		}
		return nil
	})
}

func (r RatingRepo) LoadSeasonRatings(ctx context.Context, season string, agentIDs ...string) (map[string]rating.Record, error) {
	var out map[string]rating.Record
	err := r.store.view(ctx, false, func(d *data) error {
		out = pick(d.seasons[season], agentIDs)
		return nil
	})
	return out, err
}

func (r RatingRepo) SaveSeasonRatings(ctx context.Context, season string, records map[string]rating.Record) error {
	return r.store.view(ctx, true, func(d *data) error {
		m, ok := d.seasons[season]
		if !ok {
			m = make(map[string]rating.Record)
			d.seasons[season] = m
		}
		for id, rec := range records {
			rec.AgentID = id
			m[id] = rec
		}
		return nil
	})
}

func pick(src map[string]rating.Record, ids []string) map[string]rating.Record {
	if len(ids) == 0 {
		out := make(map[string]rating.Record, len(src))
		for id, r := range src {
			out[id] = r
		}
		return out
	}
	out := make(map[string]rating.Record, len(ids))
	for _, id := range ids {
		if r, ok := src[id]; ok {
			out[id] = r
		}
	}
	return out
}
