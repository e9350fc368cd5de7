package lobby

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"molttactics/internal/domain/arena"
)

var ErrMatchNotFound = errors.New("match not found")

// Room owns one match. Everything touching the match goes through the
// room's mutex, so different matches never contend.
type Room struct {
	mu       sync.Mutex
	match    *arena.Match
	archived bool
}

// Hub is the in-memory registry of live matches.
type Hub struct {
	rules arena.Rules
	now   func() time.Time
	newID func() string
	seed  func() int64

	admit sync.Mutex

	mu    sync.RWMutex
	rooms map[string]*Room
	order []string
}

type Option func(*Hub)

func WithClock(now func() time.Time) Option { return func(h *Hub) { h.now = now } }

func WithIDs(newID func() string) Option { return func(h *Hub) { h.newID = newID } }

func WithSeeds(seed func() int64) Option { return func(h *Hub) { h.seed = seed } }

func NewHub(rules arena.Rules, opts ...Option) *Hub {
	h := &Hub{
		rules: rules,
		now:   time.Now,
		newID: func() string { return "m_" + uuid.NewString() },
		seed:  func() int64 { return rand.Int64N(1_000_000_000) },
		rooms: map[string]*Room{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Rules() arena.Rules { return h.rules }

// Seat is the result of a successful registration.
type Seat struct {
	MatchID string
	Turn    int
	MapSize int
	Seed    int64
	Agent   arena.Agent
}

// Register admits an agent into the first unfinished match with a free
// seat, creating a new match when none has room. An agent may hold only
// one seat across unfinished matches.
func (h *Hub) Register(reg arena.Registration) (Seat, error) {
	if reg.AgentID == "" {
		return Seat{}, arena.ErrInvalidRequest
	}
	if _, ok := h.rules.Class(reg.Class); !ok {
		return Seat{}, arena.ErrInvalidClass
	}

	h.admit.Lock()
	defer h.admit.Unlock()

	rooms := h.snapshotRooms()
	for _, room := range rooms {
		room.mu.Lock()
		seated := !room.match.Finished() && room.match.Has(reg.AgentID)
		room.mu.Unlock()
		if seated {
			return Seat{}, arena.ErrAgentAlreadyRegistered
		}
	}
	// Capacity is checked and the seat taken under the same room lock, so a
	// turn that finishes the match in between cannot reject the agent.
	for _, room := range rooms {
		if seat, ok, err := admitInto(room, reg); ok || err != nil {
			return seat, err
		}
	}
	seat, _, err := admitInto(h.create(), reg)
	return seat, err
}

// admitInto seats reg when room still has a free seat. ok reports whether
// the room was open.
func admitInto(room *Room, reg arena.Registration) (seat Seat, ok bool, err error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	m := room.match
	if !m.HasCapacity() {
		return Seat{}, false, nil
	}
	agent, err := m.Admit(reg)
	if err != nil {
		return Seat{}, true, err
	}
	return Seat{MatchID: m.ID, Turn: m.Turn, MapSize: m.Rules.MapSize, Seed: m.Seed, Agent: agent}, true, nil
}

func (h *Hub) create() *Room {
	m := arena.NewMatch(h.newID(), h.seed(), h.rules, h.now())
	room := &Room{match: m}
	h.mu.Lock()
	h.rooms[m.ID] = room
	h.order = append(h.order, m.ID)
	h.mu.Unlock()
	return room
}

// WithMatch runs fn while holding the match's lock.
func (h *Hub) WithMatch(matchID string, fn func(m *arena.Match) error) error {
	h.mu.RLock()
	room, ok := h.rooms[matchID]
	h.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return fn(room.match)
}

// MatchIDs lists live matches in creation order.
func (h *Hub) MatchIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...)
}

// MarkArchived records that the match's replay is durable outside memory.
func (h *Hub) MarkArchived(matchID string) {
	h.mu.RLock()
	room, ok := h.rooms[matchID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	room.mu.Lock()
	room.archived = true
	room.mu.Unlock()
}

// EvictFinished drops archived matches that finished before cutoff and
// returns their ids.
func (h *Hub) EvictFinished(cutoff time.Time) []string {
	var evicted []string
	for _, id := range h.MatchIDs() {
		h.mu.RLock()
		room, ok := h.rooms[id]
		h.mu.RUnlock()
		if !ok {
			continue
		}
		room.mu.Lock()
		drop := room.archived && room.match.Finished() && room.match.FinishedAt.Before(cutoff)
		room.mu.Unlock()
		if drop {
			h.remove(id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (h *Hub) remove(matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, matchID)
	for i, id := range h.order {
		if id == matchID {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *Hub) snapshotRooms() []*Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Room, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.rooms[id])
	}
	return out
}
