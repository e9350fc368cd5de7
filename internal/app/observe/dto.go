package observe

import "molttactics/internal/domain/arena"

type Request struct {
	MatchID string
}

type Response struct {
	MatchID   string           `json:"match_id"`
	Turn      int              `json:"turn"`
	Phase     arena.Phase      `json:"phase"`
	Map       arena.MapView    `json:"map"`
	Agents    []AgentState     `json:"agents"`
	Contracts []arena.Contract `json:"contracts"`
	LastTurn  LastTurn         `json:"last_turn"`
}

// AgentState is the public view of an agent plus its all-time reputation.
type AgentState struct {
	arena.AgentView
	Trust     int `json:"trust"`
	Honors    int `json:"honors"`
	Betrayals int `json:"betrayals"`
}

type LastTurn struct {
	Events []string `json:"events"`
}
