package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"molttactics/internal/app/lobby"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase serves replays from live matches first and falls back to the
// archive once a finished match has been evicted.
type UseCase struct {
	Hub     *lobby.Hub
	Archive ports.ReplayArchive
}

func (u UseCase) Execute(ctx context.Context, req Request) (arena.Replay, error) {
	matchID := strings.TrimSpace(req.MatchID)
	if matchID == "" {
		return arena.Replay{}, ErrInvalidRequest
	}

	var out arena.Replay
	err := u.Hub.WithMatch(matchID, func(m *arena.Match) error {
		out = m.Replay()
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, lobby.ErrMatchNotFound) || u.Archive == nil {
		return arena.Replay{}, err
	}

	out, err = u.Archive.Load(ctx, matchID)
	if errors.Is(err, ports.ErrNotFound) {
		return arena.Replay{}, lobby.ErrMatchNotFound
	}
	if err != nil {
		return arena.Replay{}, fmt.Errorf("load archived replay: %w", err)
	}
	return out, nil
}
