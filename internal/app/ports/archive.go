package ports

import (
	"context"

	"molttactics/internal/domain/arena"
)

// ReplayArchive keeps replays of finished matches after they leave memory.
// Load returns ErrNotFound for unknown matches.
type ReplayArchive interface {
	Store(ctx context.Context, replay arena.Replay) error
	Load(ctx context.Context, matchID string) (arena.Replay, error)
}
