package arena

import (
	"fmt"

	"molttactics/internal/domain/world"
)

type eventLog struct {
	items []string
}

func (l *eventLog) add(e string) {
	l.items = append(l.items, e)
}

func (l *eventLog) addf(format string, args ...any) {
	l.items = append(l.items, fmt.Sprintf(format, args...))
}

// Reputation is the per-match change to an agent's all-time standing.
type Reputation struct {
	Trust     int `json:"trust"`
	Honors    int `json:"honors"`
	Betrayals int `json:"betrayals"`
}

// mitigate runs base damage through armor, cover, guard and shield, and
// consumes whatever guard or shield it used. The result is never negative.
func mitigate(rules Rules, target *Agent, tile world.TileKind, base int) int {
	dmg := max(1, base-min(target.Armor, rules.ArmorCap))
	if tile == world.TileCover {
		dmg = max(1, int(float64(dmg)*rules.CoverFactor))
	}
	if target.Guard > 0 {
		dmg -= min(rules.GuardBlock, dmg)
		target.Guard = 0
	}
	if target.Shield > 0 {
		absorbed := min(target.Shield, dmg)
		dmg -= absorbed
		target.Shield -= absorbed
	}
	return dmg
}

func (m *Match) hit(attacker, target *Agent, base int, events *eventLog) int {
	dmg := mitigate(m.Rules, target, m.Grid.At(target.Pos), base)
	if dmg > 0 {
		target.HP -= dmg
		events.addf("%s hit %s for %d", attacker.DisplayName, target.DisplayName, dmg)
	}
	return dmg
}

// strike applies base damage unless a live contract binds the pair, in
// which case the hit is withheld and recorded as a betrayal.
func (m *Match) strike(attacker, target *Agent, base int, events *eventLog) bool {
	if m.betrays(attacker, target, events) {
		return false
	}
	m.hit(attacker, target, base, events)
	return true
}

func (m *Match) betrays(actor, target *Agent, events *eventLog) bool {
	if !m.ledger.Bound(actor.ID, target.ID) {
		return false
	}
	rep := m.reputation[actor.ID]
	rep.Betrayals++
	rep.Trust--
	m.reputation[actor.ID] = rep
	m.ledger.violate(actor.ID, target.ID)
	events.addf("%s violated a non-aggression contract", actor.ID)
	return true
}
