package arena

import "molttactics/internal/domain/world"

type MapView struct {
	Size      int                `json:"size"`
	Tiles     [][]world.TileKind `json:"tiles"`
	StormRing int                `json:"storm_ring"`
}

type Snapshot struct {
	MatchID string      `json:"match_id"`
	Turn    int         `json:"turn"`
	Map     MapView     `json:"map"`
	Agents  []AgentView `json:"agents"`
}

type ReplayEntry struct {
	Turn     int      `json:"turn"`
	Events   []string `json:"events"`
	Snapshot Snapshot `json:"snapshot"`
}

type Replay struct {
	MatchID string        `json:"match_id"`
	Seed    int64         `json:"seed"`
	Turns   []ReplayEntry `json:"turns"`
}

// State is the live view served to agents between resolutions.
type State struct {
	MatchID    string      `json:"match_id"`
	Turn       int         `json:"turn"`
	Phase      Phase       `json:"phase"`
	Map        MapView     `json:"map"`
	Agents     []AgentView `json:"agents"`
	Contracts  []Contract  `json:"contracts"`
	LastEvents []string    `json:"-"`
}

func (m *Match) mapView() MapView {
	g := m.Grid.Clone()
	return MapView{Size: g.Size, Tiles: g.Tiles, StormRing: m.StormRing}
}

func (m *Match) agentViews() []AgentView {
	out := make([]AgentView, 0, len(m.roster))
	for _, id := range m.roster {
		out = append(out, m.agents[id].View())
	}
	return out
}

func (m *Match) snapshot() Snapshot {
	return Snapshot{
		MatchID: m.ID,
		Turn:    m.Turn,
		Map:     m.mapView(),
		Agents:  m.agentViews(),
	}
}

func (m *Match) State() State {
	return State{
		MatchID:    m.ID,
		Turn:       m.Turn,
		Phase:      m.Phase,
		Map:        m.mapView(),
		Agents:     m.agentViews(),
		Contracts:  m.ledger.Contracts(),
		LastEvents: m.LastEvents(),
	}
}

// LastEvents returns the events of the most recent resolution.
func (m *Match) LastEvents() []string {
	if len(m.replay) == 0 {
		return []string{}
	}
	return append([]string{}, m.replay[len(m.replay)-1].Events...)
}

// Replay copies the history. Entries are immutable once appended, so the
// copies share nothing mutable with the match.
func (m *Match) Replay() Replay {
	turns := make([]ReplayEntry, len(m.replay))
	copy(turns, m.replay)
	return Replay{MatchID: m.ID, Seed: m.Seed, Turns: turns}
}
