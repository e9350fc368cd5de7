package gormrepo

import (
	"context"
	"time"

	"molttactics/internal/adapter/repo/gorm/model"
	"molttactics/internal/domain/rating"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ratingColumns = []string{"rating", "wins", "losses", "trust", "honors", "betrayals", "updated_at"}

type RatingRepo struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return RatingRepo{db: db}
}

// forUpdate locks the selected rows when the read happens inside a
// transaction, so concurrent finalizers queue behind each other.
func forUpdate(ctx context.Context, q *gorm.DB) *gorm.DB {
	if _, ok := txFromCtx(ctx); ok {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r RatingRepo) LoadRatings(ctx context.Context, agentIDs ...string) (map[string]rating.Record, error) {
	q := forUpdate(ctx, getDBFromCtx(ctx, r.db).Model(&model.AgentRating{}))
	if len(agentIDs) > 0 {
		q = q.Where("agent_id IN ?", agentIDs)
	}
	var rows []model.AgentRating
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]rating.Record, len(rows))
	for _, m := range rows {
		out[m.AgentID] = rating.Record{
			AgentID:   m.AgentID,
			Rating:    int(m.Rating),
			Wins:      int(m.Wins),
			Losses:    int(m.Losses),
			Trust:     int(m.Trust),
			Honors:    int(m.Honors),
			Betrayals: int(m.Betrayals),
		}
	}
	return out, nil
}

func (r RatingRepo) SaveRatings(ctx context.Context, records map[string]rating.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]model.AgentRating, 0, len(records))
	for id, rec := range records {
		rows = append(rows, model.AgentRating{
			AgentID:   id,
			Rating:    int32(rec.Rating),
			Wins:      int32(rec.Wins),
			Losses:    int32(rec.Losses),
			Trust:     int32(rec.Trust),
			Honors:    int32(rec.Honors),
			Betrayals: int32(rec.Betrayals),
			UpdatedAt: now,
		})
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}},
		DoUpdates: clause.AssignmentColumns(ratingColumns),
	}).Create(&rows).Error
}

func (r RatingRepo) LoadSeasonRatings(ctx context.Context, season string, agentIDs ...string) (map[string]rating.Record, error) {
	q := forUpdate(ctx, getDBFromCtx(ctx, r.db).Model(&model.SeasonRating{})).Where("season = ?", season)
	if len(agentIDs) > 0 {
		q = q.Where("agent_id IN ?", agentIDs)
	}
	var rows []model.SeasonRating
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]rating.Record, len(rows))
	for _, m := range rows {
		out[m.AgentID] = rating.Record{
			AgentID:   m.AgentID,
			Rating:    int(m.Rating),
			Wins:      int(m.Wins),
			Losses:    int(m.Losses),
			Trust:     int(m.Trust),
			Honors:    int(m.Honors),
			Betrayals: int(m.Betrayals),
		}
	}
	return out, nil
}

func (r RatingRepo) SaveSeasonRatings(ctx context.Context, season string, records map[string]rating.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]model.SeasonRating, 0, len(records))
	for id, rec := range records {
		rows = append(rows, model.SeasonRating{
			Season:    season,
			AgentID:   id,
			Rating:    int32(rec.Rating),
			Wins:      int32(rec.Wins),
			Losses:    int32(rec.Losses),
			Trust:     int32(rec.Trust),
			Honors:    int32(rec.Honors),
			Betrayals: int32(rec.Betrayals),
			UpdatedAt: now,
		})
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "season"}, {Name: "agent_id"}},
		DoUpdates: clause.AssignmentColumns(ratingColumns),
	}).Create(&rows).Error
}
