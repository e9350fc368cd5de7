package arena

import "molttactics/internal/domain/world"

const DefaultEmoji = "🦞"

type Registration struct {
	AgentID     string
	Class       Class
	DisplayName string
	Emoji       string
	Secret      string
}

type Agent struct {
	ID          string
	Class       Class
	DisplayName string
	Emoji       string
	Pos         world.Point
	Alive       bool
	HP          int
	Armor       int
	Damage      int
	Range       int
	Initiative  int
	Tokens      int
	Pearls      int
	Pinned      int
	Guard       int
	Shield      int
	Cooldowns   map[ActionType]int
	Secret      string
}

// AgentView is the public projection of an agent. The secret never leaves
// the aggregate through it.
type AgentView struct {
	AgentID     string             `json:"agent_id"`
	Class       Class              `json:"class"`
	DisplayName string             `json:"display_name"`
	Emoji       string             `json:"emoji"`
	HP          int                `json:"hp"`
	Armor       int                `json:"armor"`
	Damage      int                `json:"damage"`
	Range       int                `json:"range"`
	Initiative  int                `json:"initiative"`
	Tokens      int                `json:"tokens"`
	Pearls      int                `json:"pearls"`
	Pos         world.Point        `json:"pos"`
	Cooldowns   map[ActionType]int `json:"cooldowns"`
	Alive       bool               `json:"alive"`
}

func (a *Agent) View() AgentView {
	cooldowns := make(map[ActionType]int, len(a.Cooldowns))
	for k, v := range a.Cooldowns {
		cooldowns[k] = v
	}
	return AgentView{
		AgentID:     a.ID,
		Class:       a.Class,
		DisplayName: a.DisplayName,
		Emoji:       a.Emoji,
		HP:          a.HP,
		Armor:       a.Armor,
		Damage:      a.Damage,
		Range:       a.Range,
		Initiative:  a.Initiative,
		Tokens:      a.Tokens,
		Pearls:      a.Pearls,
		Pos:         a.Pos,
		Cooldowns:   cooldowns,
		Alive:       a.Alive,
	}
}

func (a *Agent) clone() Agent {
	out := *a
	out.Cooldowns = make(map[ActionType]int, len(a.Cooldowns))
	for k, v := range a.Cooldowns {
		out.Cooldowns[k] = v
	}
	return out
}

func newAgent(reg Registration, spec ClassSpec, pos world.Point, initiative int) *Agent {
	name := reg.DisplayName
	if name == "" {
		name = reg.AgentID
	}
	emoji := reg.Emoji
	if emoji == "" {
		emoji = DefaultEmoji
	}
	cooldowns := make(map[ActionType]int, len(abilityTypes))
	for _, t := range abilityTypes {
		cooldowns[t] = 0
	}
	return &Agent{
		ID:          reg.AgentID,
		Class:       reg.Class,
		DisplayName: name,
		Emoji:       emoji,
		Pos:         pos,
		Alive:       true,
		HP:          spec.HP,
		Armor:       spec.Armor,
		Damage:      spec.Damage,
		Range:       spec.Range,
		Initiative:  initiative,
		Cooldowns:   cooldowns,
		Secret:      reg.Secret,
	}
}
