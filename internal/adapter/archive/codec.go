// Package archive holds the replay encoding shared by the archive backends
// and the mirror that composes them.
package archive

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"molttactics/internal/domain/arena"
)

// Ext is the file or object suffix of an encoded replay.
const Ext = ".json.zst"

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode returns the replay as zstd-compressed JSON.
func Encode(r arena.Replay) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func Decode(b []byte) (arena.Replay, error) {
	raw, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return arena.Replay{}, fmt.Errorf("decompress replay: %w", err)
	}
	var r arena.Replay
	if err := json.Unmarshal(raw, &r); err != nil {
		return arena.Replay{}, fmt.Errorf("decode replay: %w", err)
	}
	return r, nil
}

// Name is the object name of a match's replay. It rejects ids that could
// escape the archive root.
func Name(matchID string) (string, error) {
	if matchID == "" || matchID != filepath.Base(matchID) || strings.ContainsAny(matchID, `/\`) || strings.HasPrefix(matchID, ".") {
		return "", fmt.Errorf("invalid match id %q", matchID)
	}
	return matchID + Ext, nil
}
