package matches

import (
	"context"
	"errors"
	"fmt"

	"molttactics/internal/app/lobby"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

var ErrInvalidRequest = errors.New("invalid matches request")

// UseCase lists unfinished matches followed by the most recent summaries.
type UseCase struct {
	Hub       *lobby.Hub
	Summaries ports.MatchSummaryRepository
}

func (u UseCase) Execute(ctx context.Context, req ListRequest) (ListResponse, error) {
	limit := req.Limit
	switch {
	case limit < 0:
		return ListResponse{}, ErrInvalidRequest
	case limit == 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	items := make([]Item, 0)
	for _, id := range u.Hub.MatchIDs() {
		_ = u.Hub.WithMatch(id, func(m *arena.Match) error {
			if m.Finished() {
				return nil
			}
			state := m.State()
			names := make([]string, 0, len(state.Agents))
			for _, a := range state.Agents {
				names = append(names, a.DisplayName)
			}
			items = append(items, Item{
				MatchID:    m.ID,
				Seed:       m.Seed,
				Turn:       m.Turn,
				Agents:     m.Participants(),
				AgentNames: names,
				Started:    m.Started(),
			})
			return nil
		})
	}

	if u.Summaries != nil {
		recent, err := u.Summaries.ListRecentMatchSummaries(ctx, limit)
		if err != nil {
			return ListResponse{}, fmt.Errorf("list match summaries: %w", err)
		}
		for _, s := range recent {
			items = append(items, Item{
				MatchID:  s.MatchID,
				Seed:     s.Seed,
				Finished: true,
				EndedAt:  s.EndedAt,
				Winner:   s.Winner,
				Season:   s.Season,
			})
		}
	}
	return ListResponse{Matches: items}, nil
}
