package piece

import "math/rand/v2"

// Source supplies uniform random integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Random draws one shape uniformly from the catalog.
func Random(src Source) Shape {
	return Shapes[src.IntN(NumShapes)]
}

// NewSource returns a seeded PCG-backed Source.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
