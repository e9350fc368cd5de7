package filerepo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"molttactics/internal/adapter/repo/memory"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/rating"
)

func TestOpen_EmptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, _ := memory.NewRatingRepo(store).LoadRatings(context.Background())
	if len(got) != 0 {
		t.Fatalf("fresh dir should be empty, got %+v", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	winner := "a"
	err = memory.NewTxManager(store).RunInTx(ctx, func(ctx context.Context) error {
		if err := memory.NewMatchSummaryRepo(store).AppendMatchSummary(ctx, ports.MatchSummary{
			MatchID: "m_1", Seed: 7, EndedAt: 1700000000000, Winner: &winner, Season: "2026-10",
		}); err != nil {
			return err
		}
		ratings := memory.NewRatingRepo(store)
		if err := ratings.SaveRatings(ctx, map[string]rating.Record{
			"a": {Rating: 1512, Wins: 1, Trust: 1, Honors: 1},
			"b": {Rating: 1488, Losses: 1},
		}); err != nil {
			return err
		}
		return ratings.SaveSeasonRatings(ctx, "2026-10", map[string]rating.Record{"a": {Rating: 1512, Wins: 1}})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	ratings := memory.NewRatingRepo(reopened)
	all, _ := ratings.LoadRatings(ctx)
	if all["a"].Rating != 1512 || all["a"].Honors != 1 || all["b"].Losses != 1 {
		t.Fatalf("ratings after reopen: %+v", all)
	}
	season, _ := ratings.LoadSeasonRatings(ctx, "2026-10")
	if season["a"].Wins != 1 {
		t.Fatalf("season after reopen: %+v", season)
	}
	list, _ := memory.NewMatchSummaryRepo(reopened).ListRecentMatchSummaries(ctx, 10)
	if len(list) != 1 || list[0].Winner == nil || *list[0].Winner != "a" {
		t.Fatalf("summaries after reopen: %+v", list)
	}
	if err := memory.NewMatchSummaryRepo(reopened).AppendMatchSummary(ctx, ports.MatchSummary{MatchID: "m_1"}); err != ports.ErrConflict {
		t.Fatalf("duplicate after reopen: expected ErrConflict, got %v", err)
	}
}

func TestLoad_MissingFieldsDefault(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`{"a":{"wins":2},"b":{"rating":1610,"betrayals":1}}`)
	if err := os.WriteFile(filepath.Join(dir, agentsFile), raw, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap, err := Persister{Dir: dir}.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Ratings["a"].Rating != rating.InitialRating || snap.Ratings["a"].Wins != 2 {
		t.Fatalf("a: %+v", snap.Ratings["a"])
	}
	if snap.Ratings["b"].Rating != 1610 || snap.Ratings["b"].Betrayals != 1 {
		t.Fatalf("b: %+v", snap.Ratings["b"])
	}
}

func TestSave_WritesPlainDocuments(t *testing.T) {
	dir := t.TempDir()
	err := Persister{Dir: dir}.Save(memory.Snapshot{
		Ratings: map[string]rating.Record{"a": {AgentID: "a", Rating: 1500}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, matchesFile))
	if err != nil {
		t.Fatalf("read matches: %v", err)
	}
	var list []ports.MatchSummary
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		t.Fatalf("matches.json should be an empty array, got %s", raw)
	}
	if _, err := os.Stat(filepath.Join(dir, agentsFile+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, seasonsFile), []byte("{"), 0o644)
	if _, err := Open(dir); err == nil {
		t.Fatalf("expected error for corrupt seasons file")
	}
}

func TestSave_WritesMatchesBeforeStandings(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of agents.json makes the last rename fail.
	if err := os.Mkdir(filepath.Join(dir, agentsFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	winner := "a"
	snap := memory.Snapshot{
		Ratings:   map[string]rating.Record{"a": {AgentID: "a", Rating: 1512, Wins: 1}},
		Summaries: []ports.MatchSummary{{MatchID: "m_1", Winner: &winner}},
	}
	if err := (Persister{Dir: dir}).Save(snap); err == nil {
		t.Fatalf("expected agents write to fail")
	}

	raw, err := os.ReadFile(filepath.Join(dir, matchesFile))
	if err != nil {
		t.Fatalf("matches.json should be written before agents.json: %v", err)
	}
	var got []ports.MatchSummary
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].MatchID != "m_1" {
		t.Fatalf("matches got=%+v", got)
	}
}
