package gormrepo

import (
	"context"

	"molttactics/internal/adapter/repo/gorm/model"
	"molttactics/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchSummaryRepo struct {
	db *gorm.DB
}

func NewMatchSummaryRepo(db *gorm.DB) MatchSummaryRepo {
	return MatchSummaryRepo{db: db}
}

// AppendMatchSummary reports ErrConflict when the match already has a
// summary. The insert does nothing in that case, so an open transaction
// stays usable.
func (r MatchSummaryRepo) AppendMatchSummary(ctx context.Context, summary ports.MatchSummary) error {
	m := model.MatchSummary{
		MatchID: summary.MatchID,
		Seed:    summary.Seed,
		EndedAt: summary.EndedAt,
		Winner:  summary.Winner,
		Season:  summary.Season,
	}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r MatchSummaryRepo) ListRecentMatchSummaries(ctx context.Context, limit int) ([]ports.MatchSummary, error) {
	var rows []model.MatchSummary
	if err := getDBFromCtx(ctx, r.db).Order("ended_at DESC").Order("match_id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.MatchSummary, 0, len(rows))
	for _, m := range rows {
		out = append(out, ports.MatchSummary{
			MatchID: m.MatchID,
			Seed:    m.Seed,
			EndedAt: m.EndedAt,
			Winner:  m.Winner,
			Season:  m.Season,
		})
	}
	return out, nil
}
