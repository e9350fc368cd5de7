package arena

import "molttactics/internal/domain/world"

type ActionType string

const (
	ActionMove       ActionType = "move"
	ActionAttack     ActionType = "attack"
	ActionDefend     ActionType = "defend"
	ActionHarvest    ActionType = "harvest"
	ActionMolt       ActionType = "molt"
	ActionGuard      ActionType = "guard"
	ActionArcPulse   ActionType = "arc_pulse"
	ActionShadowStep ActionType = "shadow_step"
	ActionPin        ActionType = "pin"
)

var abilityTypes = []ActionType{ActionGuard, ActionArcPulse, ActionShadowStep, ActionPin}

func (t ActionType) IsAbility() bool {
	switch t {
	case ActionGuard, ActionArcPulse, ActionShadowStep, ActionPin:
		return true
	}
	return false
}

func (t ActionType) needsTarget() bool {
	switch t {
	case ActionAttack, ActionArcPulse, ActionShadowStep, ActionPin:
		return true
	}
	return false
}

type Direction string

const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"
)

func (d Direction) delta() (int, int, bool) {
	switch d {
	case North:
		return 0, -1, true
	case South:
		return 0, 1, true
	case East:
		return 1, 0, true
	case West:
		return -1, 0, true
	}
	return 0, 0, false
}

type MoltChoice string

const (
	MoltDamage MoltChoice = "damage"
	MoltArmor  MoltChoice = "armor"
	MoltRange  MoltChoice = "range"
	MoltHP     MoltChoice = "hp"
)

func (c MoltChoice) valid() bool {
	switch c {
	case MoltDamage, MoltArmor, MoltRange, MoltHP:
		return true
	}
	return false
}

type Action struct {
	Type       ActionType   `json:"type"`
	Target     *world.Point `json:"target,omitempty"`
	Direction  Direction    `json:"direction,omitempty"`
	MoltChoice MoltChoice   `json:"molt_choice,omitempty"`
}

func Defend() Action {
	return Action{Type: ActionDefend}
}

// NormalizeAction maps anything the resolver could not act on to defend.
// A nil action is treated the same way.
func NormalizeAction(a *Action) Action {
	if a == nil {
		return Defend()
	}
	out := *a
	if out.Target != nil {
		p := *out.Target
		out.Target = &p
	}
	switch out.Type {
	case ActionMove:
		if _, _, ok := out.Direction.delta(); !ok {
			return Defend()
		}
	case ActionMolt:
		if !out.MoltChoice.valid() {
			return Defend()
		}
	case ActionAttack, ActionDefend, ActionHarvest, ActionGuard, ActionArcPulse, ActionShadowStep, ActionPin:
	default:
		return Defend()
	}
	if out.Type.needsTarget() && out.Target == nil {
		return Defend()
	}
	return out
}

type ContractOffer struct {
	Type          string `json:"type"`
	TargetAgentID string `json:"target_agent_id"`
	Turns         int    `json:"turns,omitempty"`
}

type ContractAccept struct {
	OffererID string `json:"offerer_id"`
}

// Submission is one agent's input for the current turn.
type Submission struct {
	Action  Action          `json:"action"`
	Message string          `json:"message,omitempty"`
	Offer   *ContractOffer  `json:"contract_offer,omitempty"`
	Accept  *ContractAccept `json:"contract_accept,omitempty"`
}
