package arena

type Class string

const (
	ClassWarrior Class = "warrior"
	ClassMage    Class = "mage"
	ClassRogue   Class = "rogue"
	ClassRanger  Class = "ranger"
)

// ClassSpec is the combat template an agent is spawned from.
type ClassSpec struct {
	HP       int        `json:"hp" yaml:"hp"`
	Armor    int        `json:"armor" yaml:"armor"`
	Damage   int        `json:"damage" yaml:"damage"`
	Range    int        `json:"range" yaml:"range"`
	Ability  ActionType `json:"ability" yaml:"ability"`
	Cooldown int        `json:"cd" yaml:"cd"`
}

// Rules holds every tunable of a match. DefaultRules returns the live
// values; a tuning file may overlay any subset of them.
type Rules struct {
	MapSize              int                 `json:"map_size" yaml:"map_size"`
	MaxTurns             int                 `json:"max_turns" yaml:"max_turns"`
	Capacity             int                 `json:"capacity" yaml:"capacity"`
	MinPlayers           int                 `json:"min_players" yaml:"min_players"`
	MessageMaxLen        int                 `json:"message_max_len" yaml:"message_max_len"`
	SpawnAttempts        int                 `json:"spawn_attempts" yaml:"spawn_attempts"`
	OfferTTL             int                 `json:"offer_ttl" yaml:"offer_ttl"`
	DefaultContractTurns int                 `json:"default_contract_turns" yaml:"default_contract_turns"`
	ArmorCap             int                 `json:"armor_cap" yaml:"armor_cap"`
	RangeCap             int                 `json:"range_cap" yaml:"range_cap"`
	GuardBlock           int                 `json:"guard_block" yaml:"guard_block"`
	ShieldAmount         int                 `json:"shield_amount" yaml:"shield_amount"`
	CoverFactor          float64             `json:"cover_factor" yaml:"cover_factor"`
	ArcPulseDamage       int                 `json:"arc_pulse_damage" yaml:"arc_pulse_damage"`
	HarvestHeal          int                 `json:"harvest_heal" yaml:"harvest_heal"`
	MoltCost             int                 `json:"molt_cost" yaml:"molt_cost"`
	MoltHeal             int                 `json:"molt_heal" yaml:"molt_heal"`
	HazardDamage         int                 `json:"hazard_damage" yaml:"hazard_damage"`
	StormInterval        int                 `json:"storm_interval" yaml:"storm_interval"`
	Classes              map[Class]ClassSpec `json:"classes" yaml:"classes"`
}

func DefaultRules() Rules {
	return Rules{
		MapSize:              10,
		MaxTurns:             100,
		Capacity:             8,
		MinPlayers:           2,
		MessageMaxLen:        200,
		SpawnAttempts:        200,
		OfferTTL:             5,
		DefaultContractTurns: 3,
		ArmorCap:             3,
		RangeCap:             3,
		GuardBlock:           3,
		ShieldAmount:         2,
		CoverFactor:          0.75,
		ArcPulseDamage:       2,
		HarvestHeal:          2,
		MoltCost:             2,
		MoltHeal:             2,
		HazardDamage:         1,
		StormInterval:        10,
		Classes: map[Class]ClassSpec{
			ClassWarrior: {HP: 12, Armor: 2, Damage: 2, Range: 1, Ability: ActionGuard, Cooldown: 3},
			ClassMage:    {HP: 8, Armor: 0, Damage: 3, Range: 2, Ability: ActionArcPulse, Cooldown: 4},
			ClassRogue:   {HP: 9, Armor: 1, Damage: 2, Range: 1, Ability: ActionShadowStep, Cooldown: 3},
			ClassRanger:  {HP: 9, Armor: 1, Damage: 2, Range: 3, Ability: ActionPin, Cooldown: 4},
		},
	}
}

func (r Rules) Class(c Class) (ClassSpec, bool) {
	spec, ok := r.Classes[c]
	return spec, ok
}

// Validate rejects rule sets that would make a match unplayable.
func (r Rules) Validate() error {
	switch {
	case r.MapSize <= 0:
		return ruleError("map_size must be positive")
	case r.MaxTurns <= 0:
		return ruleError("max_turns must be positive")
	case r.Capacity < r.MinPlayers || r.MinPlayers < 1:
		return ruleError("capacity must be at least min_players and min_players at least 1")
	case r.StormInterval <= 0:
		return ruleError("storm_interval must be positive")
	case len(r.Classes) == 0:
		return ruleError("at least one class is required")
	}
	for name, spec := range r.Classes {
		switch {
		case spec.HP <= 0:
			return ruleError("class " + string(name) + " hp must be positive")
		case spec.Range <= 0:
			return ruleError("class " + string(name) + " range must be positive")
		case spec.Cooldown < 0:
			return ruleError("class " + string(name) + " cd must not be negative")
		case spec.Damage < 0 || spec.Armor < 0:
			return ruleError("class " + string(name) + " damage and armor must not be negative")
		case !spec.Ability.IsAbility():
			return ruleError("class " + string(name) + " has unknown ability " + string(spec.Ability))
		}
	}
	return nil
}
