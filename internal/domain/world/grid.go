package world

// Grid is a square map indexed as Tiles[y][x].
type Grid struct {
	Size  int          `json:"size"`
	Tiles [][]TileKind `json:"tiles"`
}

// Generate draws one value per cell, row by row, from a stream seeded with
// seed. The same seed and size always yield the same grid.
func Generate(seed int64, size int) Grid {
	rng := NewRNG(seed)
	tiles := make([][]TileKind, size)
	for y := 0; y < size; y++ {
		row := make([]TileKind, size)
		for x := 0; x < size; x++ {
			row[x] = classify(rng.Float64())
		}
		tiles[y] = row
	}
	return Grid{Size: size, Tiles: tiles}
}

func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Size && p.Y < g.Size
}

// At returns TileVoid outside the grid.
func (g Grid) At(p Point) TileKind {
	if !g.InBounds(p) {
		return TileVoid
	}
	return g.Tiles[p.Y][p.X]
}

func (g Grid) Set(p Point, kind TileKind) {
	if !g.InBounds(p) {
		return
	}
	g.Tiles[p.Y][p.X] = kind
}

// IsStorm reports whether p lies in the border band of width ring.
func (g Grid) IsStorm(p Point, ring int) bool {
	return p.X < ring || p.Y < ring || p.X >= g.Size-ring || p.Y >= g.Size-ring
}

func (g Grid) Clone() Grid {
	tiles := make([][]TileKind, len(g.Tiles))
	for y, row := range g.Tiles {
		tiles[y] = append([]TileKind(nil), row...)
	}
	return Grid{Size: g.Size, Tiles: tiles}
}
