package arena

import (
	"strings"
	"testing"
	"time"

	"molttactics/internal/domain/world"
)

type seat struct {
	id    string
	class Class
	pos   world.Point
	init  int
}

func newTestMatch(t *testing.T, rules Rules, seats ...seat) *Match {
	t.Helper()
	m := NewMatch("m_test", 1, rules, time.Unix(0, 0))
	for y := range m.Grid.Tiles {
		for x := range m.Grid.Tiles[y] {
			m.Grid.Tiles[y][x] = world.TilePlain
		}
	}
	for _, s := range seats {
		if _, err := m.Admit(Registration{AgentID: s.id, Class: s.class, Secret: "s"}); err != nil {
			t.Fatalf("admit %s: %v", s.id, err)
		}
		a := m.agents[s.id]
		a.Pos = s.pos
		a.Initiative = s.init
	}
	return m
}

func submit(t *testing.T, m *Match, agentID string, sub Submission) {
	t.Helper()
	if err := m.Submit(agentID, m.Turn, sub); err != nil {
		t.Fatalf("submit %s: %v", agentID, err)
	}
}

func act(a Action) Submission { return Submission{Action: a} }

func at(x, y int) *world.Point { return &world.Point{X: x, Y: y} }

func resolve(t *testing.T, m *Match) Outcome {
	t.Helper()
	out, err := m.Resolve(time.Unix(100, 0))
	if err != nil {
		t.Fatalf("resolve turn %d: %v", m.Turn, err)
	}
	return out
}

func hasEvent(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}

func requireEvent(t *testing.T, events []string, want string) {
	t.Helper()
	if !hasEvent(events, want) {
		t.Fatalf("missing event %q in [%s]", want, strings.Join(events, " | "))
	}
}

func bind(m *Match, a, b string, turns int) {
	m.ledger.contracts = append(m.ledger.contracts, &Contract{A: a, B: b, TurnsLeft: turns})
}
