package filerepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"molttactics/internal/adapter/repo/memory"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/rating"
)

const (
	agentsFile  = "agents.json"
	seasonsFile = "seasons.json"
	matchesFile = "matches.json"
)

// record is the on-disk shape of one standing. Fields missing from older
// files read as a fresh agent.
type record struct {
	Rating    *int `json:"rating,omitempty"`
	Wins      int  `json:"wins"`
	Losses    int  `json:"losses"`
	Trust     int  `json:"trust"`
	Honors    int  `json:"honors"`
	Betrayals int  `json:"betrayals"`
}

func (r record) toDomain(id string) rating.Record {
	out := rating.Default(id)
	if r.Rating != nil {
		out.Rating = *r.Rating
	}
	out.Wins, out.Losses = r.Wins, r.Losses
	out.Trust, out.Honors, out.Betrayals = r.Trust, r.Honors, r.Betrayals
	return out
}

func fromDomain(r rating.Record) record {
	v := r.Rating
	return record{Rating: &v, Wins: r.Wins, Losses: r.Losses, Trust: r.Trust, Honors: r.Honors, Betrayals: r.Betrayals}
}

// Persister writes the store as three JSON documents under Dir.
type Persister struct {
	Dir string
}

// Open loads dir (creating it if needed) and returns a memory store that
// rewrites the files on every commit.
func Open(dir string) (*memory.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	p := Persister{Dir: dir}
	snap, err := p.Load()
	if err != nil {
		return nil, err
	}
	return memory.NewPersistentStore(snap, p), nil
}

func (p Persister) Load() (memory.Snapshot, error) {
	snap := memory.Snapshot{
		Ratings: map[string]rating.Record{},
		Seasons: map[string]map[string]rating.Record{},
	}

	var agents map[string]record
	if err := readJSON(filepath.Join(p.Dir, agentsFile), &agents); err != nil {
		return memory.Snapshot{}, err
	}
	for id, r := range agents {
		snap.Ratings[id] = r.toDomain(id)
	}

	var seasons map[string]map[string]record
	if err := readJSON(filepath.Join(p.Dir, seasonsFile), &seasons); err != nil {
		return memory.Snapshot{}, err
	}
	for season, records := range seasons {
		m := make(map[string]rating.Record, len(records))
		for id, r := range records {
			m[id] = r.toDomain(id)
		}
		snap.Seasons[season] = m
	}

	if err := readJSON(filepath.Join(p.Dir, matchesFile), &snap.Summaries); err != nil {
		return memory.Snapshot{}, err
	}
	return snap, nil
}

func (p Persister) Save(snap memory.Snapshot) error {
	agents := make(map[string]record, len(snap.Ratings))
	for id, r := range snap.Ratings {
		agents[id] = fromDomain(r)
	}
	seasons := make(map[string]map[string]record, len(snap.Seasons))
	for season, records := range snap.Seasons {
		m := make(map[string]record, len(records))
		for id, r := range records {
			m[id] = fromDomain(r)
		}
		seasons[season] = m
	}
	summaries := snap.Summaries
	if summaries == nil {
		summaries = []ports.MatchSummary{}
	}

	// Each file is replaced atomically, but not the three together. Matches go
	// first: a crash before the standings land loses that match's rating
	// change, whereas the reverse order would let a retry apply it twice.
	if err := writeJSON(filepath.Join(p.Dir, matchesFile), summaries); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(p.Dir, seasonsFile), seasons); err != nil {
		return err
	}
	return writeJSON(filepath.Join(p.Dir, agentsFile), agents)
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
