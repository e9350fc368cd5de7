package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"molttactics/internal/app/ports"
	"molttactics/internal/domain/rating"
)

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "molt.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRatingRepo_RoundTrip(t *testing.T) {
	db := openTemp(t)
	repo := NewRatingRepo(db)
	ctx := context.Background()

	if err := repo.SaveRatings(ctx, map[string]rating.Record{
		"a": {Rating: 1512, Wins: 1, Trust: 1, Honors: 1},
		"b": {Rating: 1488, Losses: 1, Trust: -1, Betrayals: 1},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveRatings(ctx, map[string]rating.Record{"a": {Rating: 1520, Wins: 2, Trust: 1, Honors: 1}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.LoadRatings(ctx, "a", "b", "ghost")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records got=%d want=2", len(got))
	}
	if got["a"].Rating != 1520 || got["a"].Wins != 2 {
		t.Fatalf("upserted a: %+v", got["a"])
	}
	if got["b"].Betrayals != 1 || got["b"].Trust != -1 {
		t.Fatalf("b reputation: %+v", got["b"])
	}

	all, err := repo.LoadRatings(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("load all: %v %+v", err, all)
	}
}

func TestRatingRepo_Seasons(t *testing.T) {
	db := openTemp(t)
	repo := NewRatingRepo(db)
	ctx := context.Background()
	_ = repo.SaveSeasonRatings(ctx, "2026-09", map[string]rating.Record{"a": {Rating: 1600}})
	_ = repo.SaveSeasonRatings(ctx, "2026-10", map[string]rating.Record{"a": {Rating: 1400}, "b": {Rating: 1500}})

	sep, _ := repo.LoadSeasonRatings(ctx, "2026-09")
	oct, _ := repo.LoadSeasonRatings(ctx, "2026-10", "a")
	if len(sep) != 1 || sep["a"].Rating != 1600 {
		t.Fatalf("september: %+v", sep)
	}
	if len(oct) != 1 || oct["a"].Rating != 1400 {
		t.Fatalf("october subset: %+v", oct)
	}
}

func TestTxManager_RollbackAndCommit(t *testing.T) {
	db := openTemp(t)
	tx := NewTxManager(db)
	ratings := NewRatingRepo(db)
	summaries := NewMatchSummaryRepo(db)
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := summaries.AppendMatchSummary(ctx, ports.MatchSummary{MatchID: "m_1", Season: "2026-10"}); err != nil {
			return err
		}
		if err := ratings.SaveRatings(ctx, map[string]rating.Record{"a": {Rating: 1512}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got, _ := ratings.LoadRatings(context.Background()); len(got) != 0 {
		t.Fatalf("rolled back ratings leaked: %+v", got)
	}

	err = tx.RunInTx(context.Background(), func(ctx context.Context) error {
		return summaries.AppendMatchSummary(ctx, ports.MatchSummary{MatchID: "m_1", Season: "2026-10"})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	list, _ := summaries.ListRecentMatchSummaries(context.Background(), 5)
	if len(list) != 1 {
		t.Fatalf("committed summary missing: %+v", list)
	}
}

func TestMatchSummaryRepo(t *testing.T) {
	db := openTemp(t)
	repo := NewMatchSummaryRepo(db)
	ctx := context.Background()
	winner := "a"
	for i, id := range []string{"m_1", "m_2", "m_3"} {
		s := ports.MatchSummary{MatchID: id, Seed: int64(i), EndedAt: int64(100 + i), Season: "2026-10"}
		if id == "m_3" {
			s.Winner = &winner
		}
		if err := repo.AppendMatchSummary(ctx, s); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	if err := repo.AppendMatchSummary(ctx, ports.MatchSummary{MatchID: "m_1"}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate: expected ErrConflict, got %v", err)
	}

	list, err := repo.ListRecentMatchSummaries(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].MatchID != "m_3" || list[1].MatchID != "m_2" {
		t.Fatalf("order: %+v", list)
	}
	if list[0].Winner == nil || *list[0].Winner != "a" || list[1].Winner != nil {
		t.Fatalf("winners: %+v", list)
	}
}

var _ ports.RatingRepository = RatingRepo{}
var _ ports.MatchSummaryRepository = MatchSummaryRepo{}
var _ ports.TxManager = TxManager{}
