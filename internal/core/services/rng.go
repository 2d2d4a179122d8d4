package services

import "math/rand/v2"

// Rand is the source of randomness every simulation stage draws from.
// *rand.Rand satisfies it; tests substitute scripted sequences.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic PRNG for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniformInt draws an int in [lo, hi].
func uniformInt(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// uniformFloat draws a float in [lo, hi).
func uniformFloat(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

func pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}
