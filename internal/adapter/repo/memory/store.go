package memory

import (
	"context"
	"sync"

	"molttactics/internal/app/ports"
	"molttactics/internal/domain/rating"
)

// Snapshot is the committed contents of a Store.
type Snapshot struct {
	Ratings   map[string]rating.Record
	Seasons   map[string]map[string]rating.Record
	Summaries []ports.MatchSummary
}

// Persister makes a committed snapshot durable. A failed Save aborts the
// write and leaves the store unchanged.
type Persister interface {
	Save(snap Snapshot) error
}

type data struct {
	ratings   map[string]rating.Record
	seasons   map[string]map[string]rating.Record
	summaries []ports.MatchSummary
}

func newData() *data {
	return &data{
		ratings: make(map[string]rating.Record),
		seasons: make(map[string]map[string]rating.Record),
	}
}

func (d *data) clone() *data {
	out := newData()
	for id, r := range d.ratings {
		out.ratings[id] = r
	}
	for season, records := range d.seasons {
		m := make(map[string]rating.Record, len(records))
		for id, r := range records {
			m[id] = r
		}
		out.seasons[season] = m
	}
	out.summaries = append([]ports.MatchSummary(nil), d.summaries...)
	return out
}

func (d *data) snapshot() Snapshot {
	c := d.clone()
	return Snapshot{Ratings: c.ratings, Seasons: c.seasons, Summaries: c.summaries}
}

// Store keeps ratings and summaries in process memory. Writes made inside
// RunInTx are staged on a copy and only become visible on commit.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	data      *data
	persister Persister
}

func NewStore() *Store {
	return &Store{data: newData()}
}

// NewPersistentStore starts from initial and hands every commit to p
// before making it visible.
func NewPersistentStore(initial Snapshot, p Persister) *Store {
	d := newData()
	for id, r := range initial.Ratings {
		r.AgentID = id
		d.ratings[id] = r
	}
	for season, records := range initial.Seasons {
		m := make(map[string]rating.Record, len(records))
		for id, r := range records {
			r.AgentID = id
			m[id] = r
		}
		d.seasons[season] = m
	}
	d.summaries = append(d.summaries, initial.Summaries...)
	return &Store{data: d, persister: p}
}

type txKey struct{}

// view runs fn against the transaction's staged copy when ctx carries one,
// else against committed data. Outside a transaction a write is applied to
// a copy and committed only if fn and the persister both succeed.
func (s *Store) view(ctx context.Context, write bool, fn func(d *data) error) error {
	if staged, ok := ctx.Value(txKey{}).(*data); ok {
		return fn(staged)
	}
	if !write {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(s.data)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	staged := s.data.clone()
	s.mu.RUnlock()
	if err := fn(staged); err != nil {
		return err
	}
	return s.commit(staged)
}

func (s *Store) commit(staged *data) error {
	if s.persister != nil {
		if err := s.persister.Save(staged.snapshot()); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.data = staged
	s.mu.Unlock()
	return nil
}
