// Package simulation provides the deterministic random source and the
// geometric Brownian motion price paths behind all synthetic fund data.
//
// Every generated value is a pure function of a string seed (normally a fund
// ticker), so the same demo data is reproduced across restarts and platforms
// without persisting anything.
package simulation

import "math"

// HashSeed derives a 32-bit seed from a string using a djb2-style rolling
// hash. The exact constant does not matter; stability and bit dispersion do.
func HashSeed(s string) uint32 {
	var hash uint32 = 5381
	for i := 0; i < len(s); i++ {
		hash = hash<<5 + hash + uint32(s[i])
	}
	return hash
}

// Rand is a deterministic pseudo-random source using the Mulberry32 state
// transition. It is not safe for concurrent use; construct one per consumer.
type Rand struct {
	state uint32
}

// NewRand creates a generator seeded from the given string.
// The same seed always yields the identical sequence.
func NewRand(seed string) *Rand {
	return &Rand{state: HashSeed(seed)}
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := (r.state ^ (r.state >> 15)) * (r.state | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

// InRange returns a uniform value in [min, max).
func (r *Rand) InRange(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// NormFloat64 returns a standard-normal deviate via the Box-Muller transform.
// The first uniform draw is clamped away from zero to keep the log finite.
func (r *Rand) NormFloat64() float64 {
	u1 := r.Float64()
	u2 := r.Float64()
	if u1 == 0 {
		u1 = 0.0001
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Normal returns a normal deviate with the given mean and standard deviation.
func (r *Rand) Normal(mean, stdDev float64) float64 {
	return mean + stdDev*r.NormFloat64()
}
