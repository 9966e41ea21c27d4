package geom

import (
	"math"
	"math/rand"
)

// RandInt returns an int in [lo, hiExclusive).
// An empty range returns lo.
func RandInt(rng *rand.Rand, lo, hiExclusive int) int {
	if hiExclusive <= lo {
		return lo
	}
	return lo + int(math.Floor(rng.Float64()*float64(hiExclusive-lo)))
}

// RandFloat returns a float in [lo, hi).
func RandFloat(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// PickWeighted picks one element of pool with probability proportional to
// weight. The roll walks the pool subtracting weights and returns the first
// element that brings it to zero or below; if rounding leaves nothing picked
// the first element wins. ok is false only for an empty pool.
func PickWeighted[T any](rng *rand.Rand, pool []T, weight func(T) float64) (picked T, ok bool) {
	if len(pool) == 0 {
		return picked, false
	}
	total := 0.0
	for _, it := range pool {
		total += math.Max(0, weight(it))
	}
	roll := rng.Float64() * total
	for _, it := range pool {
		roll -= math.Max(0, weight(it))
		if roll <= 0 {
			return it, true
		}
	}
	return pool[0], true
}

// Positioned is anything with a position that can be dead.
type Positioned interface {
	Position() Vec
	IsAlive() bool
}

// NearestAlive returns the living candidate closest to from.
// ok is false when none is alive.
func NearestAlive[T Positioned](from Vec, candidates []T) (best T, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, c := range candidates {
		if !c.IsAlive() {
			continue
		}
		d := from.Dist(c.Position())
		if d < dist {
			best, dist, ok = c, d, true
		}
	}
	return best, dist, ok
}
