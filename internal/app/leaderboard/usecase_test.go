package leaderboard

import (
	"context"
	"errors"
	"testing"

	"molttactics/internal/adapter/repo/memory"
	"molttactics/internal/domain/rating"
)

func seeded(t *testing.T) UseCase {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewRatingRepo(store)
	ctx := context.Background()
	if err := repo.SaveRatings(ctx, map[string]rating.Record{
		"b": {Rating: 1512},
		"a": {Rating: 1512},
		"c": {Rating: 1476},
	}); err != nil {
		t.Fatalf("seed all-time: %v", err)
	}
	if err := repo.SaveSeasonRatings(ctx, "2026-10", map[string]rating.Record{"c": {Rating: 1524}}); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	return UseCase{Ratings: repo}
}

func TestUseCase_AllTimeOrdering(t *testing.T) {
	resp, err := seeded(t).Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("leaderboard error: %v", err)
	}
	if resp.Season != rating.AllTime {
		t.Fatalf("season label got=%s want=%s", resp.Season, rating.AllTime)
	}
	var ids []string
	for _, e := range resp.Entries {
		ids = append(ids, e.AgentID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("order got=%v want=[a b c]", ids)
	}
}

func TestUseCase_Season(t *testing.T) {
	uc := seeded(t)
	resp, err := uc.Execute(context.Background(), Request{Season: "2026-10"})
	if err != nil {
		t.Fatalf("season leaderboard error: %v", err)
	}
	if resp.Season != "2026-10" || len(resp.Entries) != 1 || resp.Entries[0].Rating != 1524 {
		t.Fatalf("unexpected season board: %+v", resp)
	}

	empty, err := uc.Execute(context.Background(), Request{Season: "2025-01"})
	if err != nil || len(empty.Entries) != 0 || empty.Entries == nil {
		t.Fatalf("unknown season should be an empty list, got %+v err=%v", empty, err)
	}
}

func TestUseCase_RejectsMalformedSeason(t *testing.T) {
	uc := seeded(t)
	for _, s := range []string{"2026", "2026-13", "26-10", "october"} {
		if _, err := uc.Execute(context.Background(), Request{Season: s}); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("season %q: expected ErrInvalidRequest, got %v", s, err)
		}
	}
}
