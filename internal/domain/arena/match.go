package arena

import (
	"strings"
	"time"
	"unicode/utf8"

	"molttactics/internal/domain/world"
)

type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Match is the aggregate for one game. It is not safe for concurrent use;
// callers serialize access per match.
type Match struct {
	ID         string
	Seed       int64
	Rules      Rules
	Grid       world.Grid
	StormRing  int
	Turn       int
	Phase      Phase
	CreatedAt  time.Time
	FinishedAt time.Time

	agents     map[string]*Agent
	roster     []string
	pending    map[string]Submission
	ledger     *Ledger
	replay     []ReplayEntry
	reputation map[string]Reputation
	settlement *Settlement
}

func NewMatch(id string, seed int64, rules Rules, now time.Time) *Match {
	return &Match{
		ID:         id,
		Seed:       seed,
		Rules:      rules,
		Grid:       world.Generate(seed, rules.MapSize),
		Turn:       1,
		Phase:      PhaseWaiting,
		CreatedAt:  now,
		agents:     map[string]*Agent{},
		pending:    map[string]Submission{},
		ledger:     newLedger(),
		reputation: map[string]Reputation{},
	}
}

func (m *Match) Started() bool  { return m.Phase == PhaseInProgress }
func (m *Match) Finished() bool { return m.Phase == PhaseFinished }

func (m *Match) Participants() int { return len(m.roster) }

func (m *Match) HasCapacity() bool {
	return !m.Finished() && len(m.roster) < m.Rules.Capacity
}

func (m *Match) PendingCount() int { return len(m.pending) }

func (m *Match) Has(agentID string) bool {
	_, ok := m.agents[agentID]
	return ok
}

// Agent returns a copy of the named agent, secret included.
func (m *Match) Agent(agentID string) (Agent, bool) {
	a, ok := m.agents[agentID]
	if !ok {
		return Agent{}, false
	}
	return a.clone(), true
}

// Roster lists agent ids in admission order.
func (m *Match) Roster() []string {
	return append([]string(nil), m.roster...)
}

// Admit seats a new agent. Its spawn cell and initiative are drawn from a
// stream seeded by the match seed and the agent's admission ordinal, so the
// same seed and registration order always reproduce the same placement.
func (m *Match) Admit(reg Registration) (Agent, error) {
	if strings.TrimSpace(reg.AgentID) == "" {
		return Agent{}, ErrInvalidRequest
	}
	spec, ok := m.Rules.Class(reg.Class)
	if !ok {
		return Agent{}, ErrInvalidClass
	}
	if m.Finished() {
		return Agent{}, ErrMatchFinished
	}
	if m.Has(reg.AgentID) {
		return Agent{}, ErrAgentAlreadyRegistered
	}
	if len(m.roster) >= m.Rules.Capacity {
		return Agent{}, ErrMatchFull
	}

	rng := world.NewRNG(m.Seed + int64(len(m.roster)) + 1)
	pos := m.spawnPoint(rng)
	initiative := rng.Intn(10)

	a := newAgent(reg, spec, pos, initiative)
	m.agents[a.ID] = a
	m.roster = append(m.roster, a.ID)
	if m.Phase == PhaseWaiting && len(m.roster) >= m.Rules.MinPlayers {
		m.Phase = PhaseInProgress
	}
	return a.clone(), nil
}

// spawnPoint samples cells until one is free of living agents. When every
// sample collides it falls back to the origin, which may overlap.
func (m *Match) spawnPoint(rng *world.RNG) world.Point {
	size := m.Rules.MapSize
	for i := 0; i < m.Rules.SpawnAttempts; i++ {
		p := world.Point{X: rng.Intn(size), Y: rng.Intn(size)}
		if m.occupant(p, nil) == nil {
			return p
		}
	}
	return world.Point{}
}

// occupant returns the first living agent at p in roster order, skipping
// except.
func (m *Match) occupant(p world.Point, except *Agent) *Agent {
	for _, id := range m.roster {
		a := m.agents[id]
		if a != except && a.Alive && a.Pos == p {
			return a
		}
	}
	return nil
}

// Submit buffers an agent's input for the current turn, replacing any
// earlier submission from the same agent this turn.
func (m *Match) Submit(agentID string, turn int, sub Submission) error {
	if m.Finished() {
		return ErrMatchFinished
	}
	if !m.Has(agentID) {
		return ErrAgentNotFound
	}
	if turn != m.Turn {
		return &StaleTurnError{Submitted: turn, Current: m.Turn}
	}
	sub.Action = NormalizeAction(&sub.Action)
	sub.Message = truncateRunes(sub.Message, m.Rules.MessageMaxLen)
	if sub.Offer != nil {
		o := *sub.Offer
		sub.Offer = &o
	}
	if sub.Accept != nil {
		a := *sub.Accept
		sub.Accept = &a
	}
	m.pending[agentID] = sub
	return nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Reputation returns the betrayal and honor deltas accumulated so far.
func (m *Match) Reputation() map[string]Reputation {
	out := make(map[string]Reputation, len(m.reputation))
	for k, v := range m.reputation {
		out[k] = v
	}
	return out
}

func (m *Match) Contracts() []Contract { return m.ledger.Contracts() }

func (m *Match) Offers() []Offer { return m.ledger.Offers() }

// Settlement is available once the match has finished.
func (m *Match) Settlement() (Settlement, bool) {
	if m.settlement == nil {
		return Settlement{}, false
	}
	return *m.settlement, true
}

func (m *Match) living() []*Agent {
	out := make([]*Agent, 0, len(m.roster))
	for _, id := range m.roster {
		if a := m.agents[id]; a.Alive {
			out = append(out, a)
		}
	}
	return out
}
