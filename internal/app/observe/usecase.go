package observe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"molttactics/internal/app/lobby"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
	"molttactics/internal/domain/rating"
)

var ErrInvalidRequest = errors.New("invalid state request")

type UseCase struct {
	Hub     *lobby.Hub
	Ratings ports.RatingRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	matchID := strings.TrimSpace(req.MatchID)
	if matchID == "" {
		return Response{}, ErrInvalidRequest
	}

	var (
		state   arena.State
		pending map[string]arena.Reputation
	)
	err := u.Hub.WithMatch(matchID, func(m *arena.Match) error {
		state = m.State()
		// Once finished, the deltas belong to finalization.
		if !m.Finished() {
			pending = m.Reputation()
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	ids := make([]string, 0, len(state.Agents))
	for _, a := range state.Agents {
		ids = append(ids, a.AgentID)
	}
	records := map[string]rating.Record{}
	if u.Ratings != nil && len(ids) > 0 {
		records, err = u.Ratings.LoadRatings(ctx, ids...)
		if err != nil {
			return Response{}, fmt.Errorf("load ratings: %w", err)
		}
	}

	agents := make([]AgentState, 0, len(state.Agents))
	for _, a := range state.Agents {
		rec := rating.GetOrDefault(records, a.AgentID)
		d := pending[a.AgentID]
		agents = append(agents, AgentState{
			AgentView: a,
			Trust:     rec.Trust + d.Trust,
			Honors:    rec.Honors + d.Honors,
			Betrayals: rec.Betrayals + d.Betrayals,
		})
	}

	return Response{
		MatchID:   state.MatchID,
		Turn:      state.Turn,
		Phase:     state.Phase,
		Map:       state.Map,
		Agents:    agents,
		Contracts: state.Contracts,
		LastTurn:  LastTurn{Events: state.LastEvents},
	}, nil
}
