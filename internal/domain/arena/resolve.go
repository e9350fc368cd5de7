package arena

import (
	"sort"
	"time"

	"molttactics/internal/domain/world"
)

// Outcome reports one resolution.
type Outcome struct {
	Turn       int
	Events     []string
	Finished   bool
	Settlement *Settlement
}

// Settlement is everything finalization needs from a finished match.
type Settlement struct {
	MatchID      string
	Seed         int64
	Participants []string
	Winner       string
	FinishedAt   time.Time
	Reputation   map[string]Reputation
	Replay       Replay
}

func (s Settlement) HasWinner() bool { return s.Winner != "" }

// Resolve consumes the pending buffer and advances the match by one turn.
// Phases run in a fixed order over the agents alive at the start, sorted by
// initiative descending with admission order breaking ties.
func (m *Match) Resolve(now time.Time) (Outcome, error) {
	if m.Finished() {
		return Outcome{}, ErrMatchFinished
	}
	if !m.Started() {
		return Outcome{}, ErrMatchNotStarted
	}

	order := m.living()
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Initiative > order[j].Initiative
	})

	events := &eventLog{items: []string{}}
	m.resolveDiplomacy(order, events)
	m.resolveDefense(order, events)
	m.resolveAbilities(order, events)
	m.resolveAttacks(order, events)
	m.resolveMovement(order)
	m.resolveResources(order, events)
	m.resolveEnvironment(order, events)
	m.decay(order)
	m.eliminate(order, events)

	for _, pair := range m.ledger.settle(m.Turn, m.Rules.OfferTTL, events) {
		for _, id := range pair {
			rep := m.reputation[id]
			rep.Honors++
			rep.Trust++
			m.reputation[id] = rep
		}
	}

	resolved := m.Turn
	m.replay = append(m.replay, ReplayEntry{
		Turn:     resolved,
		Events:   events.items,
		Snapshot: m.snapshot(),
	})
	clear(m.pending)
	m.Turn++

	out := Outcome{Turn: resolved, Events: append([]string(nil), events.items...)}
	if m.Turn > m.Rules.MaxTurns || len(m.living()) <= 1 {
		s := m.finish(now)
		out.Finished = true
		out.Settlement = &s
	}
	return out, nil
}

func (m *Match) finish(now time.Time) Settlement {
	m.Phase = PhaseFinished
	m.FinishedAt = now
	winner := ""
	if alive := m.living(); len(alive) == 1 {
		winner = alive[0].ID
	}
	s := Settlement{
		MatchID:      m.ID,
		Seed:         m.Seed,
		Participants: m.Roster(),
		Winner:       winner,
		FinishedAt:   now,
		Reputation:   m.Reputation(),
		Replay:       m.Replay(),
	}
	m.settlement = &s
	return s
}

func (m *Match) resolveDiplomacy(order []*Agent, events *eventLog) {
	for _, a := range order {
		sub, ok := m.pending[a.ID]
		if !ok {
			continue
		}
		if o := sub.Offer; o != nil && o.Type == "non_aggression" && o.TargetAgentID != "" && o.TargetAgentID != a.ID {
			turns := o.Turns
			if turns == 0 {
				turns = m.Rules.DefaultContractTurns
			}
			m.ledger.offer(Offer{From: a.ID, To: o.TargetAgentID, Turns: max(1, turns), CreatedTurn: m.Turn})
			events.addf("%s offered non-aggression to %s", a.DisplayName, o.TargetAgentID)
		}
		if acc := sub.Accept; acc != nil && acc.OffererID != "" {
			if m.ledger.accept(acc.OffererID, a.ID) {
				events.addf("%s accepted non-aggression from %s", a.DisplayName, acc.OffererID)
			}
		}
		if sub.Message != "" {
			events.addf("%s: %s", a.DisplayName, sub.Message)
		}
	}
}

func (m *Match) resolveDefense(order []*Agent, events *eventLog) {
	for _, a := range order {
		if m.actionOf(a).Type != ActionDefend {
			continue
		}
		a.Shield = m.Rules.ShieldAmount
		events.addf("%s defended", a.DisplayName)
	}
}

func (m *Match) resolveAbilities(order []*Agent, events *eventLog) {
	for _, a := range order {
		act := m.actionOf(a)
		if !act.Type.IsAbility() {
			continue
		}
		spec, ok := m.Rules.Class(a.Class)
		if !ok || spec.Ability != act.Type || a.Cooldowns[act.Type] > 0 {
			continue
		}
		if act.Type.needsTarget() && act.Target == nil {
			continue
		}
		a.Cooldowns[act.Type] = spec.Cooldown

		switch act.Type {
		case ActionGuard:
			a.Guard = 1
			events.addf("%s used Guard", a.DisplayName)
		case ActionArcPulse:
			violated := false
			for _, t := range order {
				if t.Pos.Chebyshev(*act.Target) > 1 {
					continue
				}
				if !m.strike(a, t, m.Rules.ArcPulseDamage, events) {
					violated = true
				}
			}
			if !violated {
				events.addf("%s used Arc Pulse", a.DisplayName)
			}
		case ActionShadowStep:
			if m.Grid.InBounds(*act.Target) {
				a.Pos = *act.Target
			}
			events.addf("%s used Shadow Step", a.DisplayName)
		case ActionPin:
			t := firstAt(order, *act.Target)
			if t == nil || m.betrays(a, t, events) {
				continue
			}
			t.Pinned = 1
			events.addf("%s pinned %s", a.DisplayName, t.DisplayName)
		}
	}
}

func (m *Match) resolveAttacks(order []*Agent, events *eventLog) {
	for _, a := range order {
		act := m.actionOf(a)
		if act.Type != ActionAttack || act.Target == nil {
			continue
		}
		if a.Pos.Manhattan(*act.Target) > a.Range {
			continue
		}
		if t := firstAt(order, *act.Target); t != nil {
			m.strike(a, t, a.Damage, events)
		}
	}
}

func (m *Match) resolveMovement(order []*Agent) {
	for _, a := range order {
		act := m.actionOf(a)
		if act.Type != ActionMove || a.Pinned > 0 {
			continue
		}
		dx, dy, ok := act.Direction.delta()
		if !ok {
			continue
		}
		next := a.Pos
		next.X += dx
		next.Y += dy
		if !m.Grid.InBounds(next) || m.occupant(next, a) != nil {
			continue
		}
		a.Pos = next
	}
}

func (m *Match) resolveResources(order []*Agent, events *eventLog) {
	for _, a := range order {
		act := m.actionOf(a)
		switch act.Type {
		case ActionHarvest:
			switch m.Grid.At(a.Pos) {
			case world.TileResource:
				a.Tokens++
				a.Pearls++
				m.Grid.Set(a.Pos, world.TilePlain)
				events.addf("%s harvested a resource", a.DisplayName)
			case world.TileHealth:
				a.HP += m.Rules.HarvestHeal
				m.Grid.Set(a.Pos, world.TilePlain)
				events.addf("%s harvested a health tile", a.DisplayName)
			}
		case ActionMolt:
			if a.Tokens < m.Rules.MoltCost {
				continue
			}
			switch act.MoltChoice {
			case MoltDamage:
				a.Damage++
			case MoltArmor:
				a.Armor++
			case MoltRange:
				if a.Range < m.Rules.RangeCap {
					a.Range++
				}
			case MoltHP:
				a.HP += m.Rules.MoltHeal
			}
			a.Tokens -= m.Rules.MoltCost
			events.addf("%s molted for %s", a.DisplayName, act.MoltChoice)
		}
	}
}

func (m *Match) resolveEnvironment(order []*Agent, events *eventLog) {
	m.StormRing = (m.Turn - 1) / m.Rules.StormInterval
	for _, a := range order {
		if m.Grid.At(a.Pos) == world.TileHazard || m.Grid.IsStorm(a.Pos, m.StormRing) {
			a.HP -= m.Rules.HazardDamage
			events.addf("%s took hazard damage", a.DisplayName)
		}
	}
}

func (m *Match) decay(order []*Agent) {
	for _, a := range order {
		for k, v := range a.Cooldowns {
			if v > 0 {
				a.Cooldowns[k] = v - 1
			}
		}
		if a.Pinned > 0 {
			a.Pinned--
		}
		a.Shield = 0
		a.Guard = 0
	}
}

func (m *Match) eliminate(order []*Agent, events *eventLog) {
	for _, a := range order {
		if a.Alive && a.HP <= 0 {
			a.Alive = false
			events.addf("%s was eliminated", a.DisplayName)
		}
	}
}

// actionOf returns the buffered action, or an empty action for agents that
// did not submit this turn.
func (m *Match) actionOf(a *Agent) Action {
	sub, ok := m.pending[a.ID]
	if !ok {
		return Action{}
	}
	return sub.Action
}

func firstAt(order []*Agent, p world.Point) *Agent {
	for _, t := range order {
		if t.Pos == p {
			return t
		}
	}
	return nil
}
