package matches

type ListRequest struct {
	Limit int
}

type ListResponse struct {
	Matches []Item `json:"matches"`
}

// Item is either a live match or the summary of a finished one. Live
// matches carry turn and roster fields; summaries carry ended_at, winner
// and season.
type Item struct {
	MatchID    string   `json:"match_id"`
	Seed       int64    `json:"seed"`
	Turn       int      `json:"turn,omitempty"`
	Agents     int      `json:"agents,omitempty"`
	AgentNames []string `json:"agent_names,omitempty"`
	Started    bool     `json:"started,omitempty"`
	Finished   bool     `json:"finished"`
	EndedAt    int64    `json:"ended_at,omitempty"`
	Winner     *string  `json:"winner,omitempty"`
	Season     string   `json:"season,omitempty"`
}

type DebugResponse struct {
	TurnMS  int64        `json:"turn_ms"`
	Matches []DebugMatch `json:"matches"`
}

type DebugMatch struct {
	ID       string `json:"id"`
	Turn     int    `json:"turn"`
	Agents   int    `json:"agents"`
	Pending  int    `json:"pending"`
	Finished bool   `json:"finished"`
}
