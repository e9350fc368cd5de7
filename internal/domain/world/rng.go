package world

// RNG is a mulberry32 stream. It is a pure function of its seed so that a
// match can be rebuilt from the seed alone; it must never be fed wall-clock
// or crypto entropy.
type RNG struct {
	state uint32
}

func NewRNG(seed int64) *RNG {
	return &RNG{state: uint32(seed)}
}

// Float64 returns the next value in [0,1).
func (r *RNG) Float64() float64 {
	r.state += 0x6d2b79f5
	t := r.state
	z := (t ^ (t >> 15)) * (1 | t)
	z ^= z + (z^(z>>7))*(61|z)
	return float64(z^(z>>14)) / 4294967296
}

// Intn returns floor(Float64()*n).
func (r *RNG) Intn(n int) int {
	return int(r.Float64() * float64(n))
}
