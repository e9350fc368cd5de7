package zstdfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"molttactics/internal/adapter/archive"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
)

// Archive keeps one compressed replay file per match under Dir.
type Archive struct {
	Dir string
}

func New(dir string) (Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Archive{}, err
	}
	return Archive{Dir: dir}, nil
}

func (a Archive) Store(_ context.Context, r arena.Replay) error {
	name, err := archive.Name(r.MatchID)
	if err != nil {
		return err
	}
	b, err := archive.Encode(r)
	if err != nil {
		return err
	}
	path := filepath.Join(a.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write replay: %w", err)
	}
	return os.Rename(tmp, path)
}

func (a Archive) Load(_ context.Context, matchID string) (arena.Replay, error) {
	name, err := archive.Name(matchID)
	if err != nil {
		return arena.Replay{}, ports.ErrNotFound
	}
	b, err := os.ReadFile(filepath.Join(a.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return arena.Replay{}, ports.ErrNotFound
	}
	if err != nil {
		return arena.Replay{}, err
	}
	return archive.Decode(b)
}

var _ ports.ReplayArchive = Archive{}
