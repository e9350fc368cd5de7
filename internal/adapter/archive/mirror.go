package archive

import (
	"context"
	"errors"

	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
	"molttactics/internal/logger"
)

// Mirror stores every replay in Primary and copies it to Secondary. Only a
// Primary failure fails the store; Load falls back to Secondary when the
// replay is missing locally.
type Mirror struct {
	Primary   ports.ReplayArchive
	Secondary ports.ReplayArchive
}

func (m Mirror) Store(ctx context.Context, r arena.Replay) error {
	if err := m.Primary.Store(ctx, r); err != nil {
		return err
	}
	if m.Secondary == nil {
		return nil
	}
	if err := m.Secondary.Store(ctx, r); err != nil {
		logger.Warn("replay mirror upload failed", "match_id", r.MatchID, "error", err)
	}
	return nil
}

func (m Mirror) Load(ctx context.Context, matchID string) (arena.Replay, error) {
	r, err := m.Primary.Load(ctx, matchID)
	if err == nil || m.Secondary == nil || !errors.Is(err, ports.ErrNotFound) {
		return r, err
	}
	return m.Secondary.Load(ctx, matchID)
}

var _ ports.ReplayArchive = Mirror{}
