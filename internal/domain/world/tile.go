package world

type TileKind string

const (
	TilePlain    TileKind = "plain"
	TileCover    TileKind = "cover"
	TileHazard   TileKind = "hazard"
	TileResource TileKind = "resource"
	TileHealth   TileKind = "health"
	TileVoid     TileKind = "void"
)

// tileThresholds are cumulative upper bounds on a single RNG draw. A draw
// at or above the last bound is plain.
var tileThresholds = []struct {
	bound float64
	kind  TileKind
}{
	{0.10, TileCover},
	{0.18, TileHazard},
	{0.28, TileResource},
	{0.34, TileHealth},
}

func classify(r float64) TileKind {
	for _, t := range tileThresholds {
		if r < t.bound {
			return t.kind
		}
	}
	return TilePlain
}

// Consumable reports whether harvesting the tile reverts it to plain.
func (k TileKind) Consumable() bool {
	return k == TileResource || k == TileHealth
}
