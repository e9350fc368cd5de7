package rating

import (
	"math"
	"sort"
	"time"
)

const (
	InitialRating = 1500
	KFactor       = 24.0

	// AllTime labels the unscoped leaderboard.
	AllTime = "all-time"
)

// Record is one agent's standing within a scope (all-time or a season).
type Record struct {
	AgentID   string `json:"agent_id"`
	Rating    int    `json:"rating"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Trust     int    `json:"trust"`
	Honors    int    `json:"honors"`
	Betrayals int    `json:"betrayals"`
}

type Reputation struct {
	Trust     int
	Honors    int
	Betrayals int
}

func Default(agentID string) Record {
	return Record{AgentID: agentID, Rating: InitialRating}
}

// GetOrDefault never mutates records; a missing agent reads as a fresh record.
func GetOrDefault(records map[string]Record, agentID string) Record {
	if r, ok := records[agentID]; ok {
		r.AgentID = agentID
		return r
	}
	return Default(agentID)
}

// Apply scores one finished match and returns the new record of every
// participant. Expectations use the ratings as they stood before the
// match. The winner scores len(participants)-1, everyone else 0; an empty
// winner means everyone lost. With fewer than two participants only the
// win/loss counters move.
func Apply(participants []string, winner string, records map[string]Record) map[string]Record {
	ids := dedupe(participants)
	out := make(map[string]Record, len(ids))
	for _, id := range ids {
		r := GetOrDefault(records, id)
		if id == winner {
			r.Wins++
		} else {
			r.Losses++
		}
		out[id] = r
	}
	if len(ids) < 2 {
		return out
	}

	// surprise accumulates actual minus expected score per opponent. In a
	// decided pair the winner gains exactly what the loser gives up.
	surprise := make(map[string]float64, len(ids))
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			switch winner {
			case a:
				e := expectedScore(float64(out[b].Rating), float64(out[a].Rating))
				surprise[a] += e
				surprise[b] -= e
			case b:
				e := expectedScore(float64(out[a].Rating), float64(out[b].Rating))
				surprise[b] += e
				surprise[a] -= e
			default:
				surprise[a] -= expectedScore(float64(out[a].Rating), float64(out[b].Rating))
				surprise[b] -= expectedScore(float64(out[b].Rating), float64(out[a].Rating))
			}
		}
	}

	deltas := make([]int, len(ids))
	for i, id := range ids {
		deltas[i] = int(math.Round(KFactor * surprise[id]))
	}
	for i, id := range ids {
		r := out[id]
		r.Rating += deltas[i]
		out[id] = r
	}
	return out
}

// ApplyReputation folds per-match betrayal and honor deltas into records
// and returns the touched records.
func ApplyReputation(records map[string]Record, deltas map[string]Reputation) map[string]Record {
	out := make(map[string]Record, len(deltas))
	for id, d := range deltas {
		r := GetOrDefault(records, id)
		r.Trust += d.Trust
		r.Honors += d.Honors
		r.Betrayals += d.Betrayals
		out[id] = r
	}
	return out
}

// Season is the UTC year-month of t, e.g. "2026-10".
func Season(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Leaderboard orders records by rating, highest first, breaking ties by
// agent id.
func Leaderboard(records map[string]Record) []Record {
	out := make([]Record, 0, len(records))
	for id, r := range records {
		r.AgentID = id
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].AgentID < out[j].AgentID
	})
	return out
}

// Merge overlays updated records onto base in place.
func Merge(base, updated map[string]Record) {
	for id, r := range updated {
		base[id] = r
	}
}

func expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
