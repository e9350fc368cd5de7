package turn

import (
	"context"
	"errors"
	"time"

	"molttactics/internal/app/lobby"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
	"molttactics/internal/logger"
)

// Settler receives settlements of matches that just finished.
type Settler interface {
	Enqueue(ctx context.Context, s arena.Settlement) error
}

// Service advances matches. Each resolution holds only its own match's
// lock; settlements are handed off after the lock is released.
type Service struct {
	Hub        *lobby.Hub
	Settler    Settler
	Metrics    ports.TurnMetrics
	Now        func() time.Time
	DebugTicks bool
}

// Tick resolves every started, unfinished match once and returns how many
// were resolved.
func (s Service) Tick(ctx context.Context) int {
	resolved := 0
	for _, id := range s.Hub.MatchIDs() {
		if ctx.Err() != nil {
			break
		}
		_, err := s.ResolveMatch(ctx, id)
		switch {
		case err == nil:
			resolved++
		case errors.Is(err, arena.ErrMatchNotStarted),
			errors.Is(err, arena.ErrMatchFinished),
			errors.Is(err, lobby.ErrMatchNotFound):
		default:
			logger.Error("resolve failed", "match_id", id, "error", err)
		}
	}
	return resolved
}

// ResolveMatch runs one resolution of the named match.
func (s Service) ResolveMatch(ctx context.Context, matchID string) (arena.Outcome, error) {
	var out arena.Outcome
	err := s.Hub.WithMatch(matchID, func(m *arena.Match) error {
		if !m.Started() {
			return arena.ErrMatchNotStarted
		}
		if m.Finished() {
			return arena.ErrMatchFinished
		}
		if s.DebugTicks {
			logger.Debug("tick", "match_id", m.ID, "turn", m.Turn, "pending", m.PendingCount())
		}
		var err error
		out, err = m.Resolve(s.now())
		return err
	})
	if err != nil {
		return arena.Outcome{}, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordResolution(out.Finished)
	}
	if out.Finished && out.Settlement != nil {
		logger.Info("match finished", "match_id", matchID, "turn", out.Turn, "winner", out.Settlement.Winner)
		if s.Settler != nil {
			if err := s.Settler.Enqueue(ctx, *out.Settlement); err != nil {
				logger.Error("settlement not queued", "match_id", matchID, "error", err)
			}
		}
	}
	return out, nil
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
