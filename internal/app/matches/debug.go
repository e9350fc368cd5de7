package matches

import (
	"context"
	"time"

	"molttactics/internal/app/lobby"
	"molttactics/internal/domain/arena"
)

// DebugUseCase exposes scheduler internals for operators.
type DebugUseCase struct {
	Hub          *lobby.Hub
	TurnInterval time.Duration
}

func (u DebugUseCase) Execute(_ context.Context) (DebugResponse, error) {
	out := DebugResponse{TurnMS: u.TurnInterval.Milliseconds(), Matches: []DebugMatch{}}
	for _, id := range u.Hub.MatchIDs() {
		_ = u.Hub.WithMatch(id, func(m *arena.Match) error {
			out.Matches = append(out.Matches, DebugMatch{
				ID:       m.ID,
				Turn:     m.Turn,
				Agents:   m.Participants(),
				Pending:  m.PendingCount(),
				Finished: m.Finished(),
			})
			return nil
		})
	}
	return out, nil
}
