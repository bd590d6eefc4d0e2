// Package randengine wraps golang.org/x/exp/rand with the sampling
// helpers the simulator needs (normal/poisson draws, discrete choice).
package randengine

import (
	"flag"
	"log"
	"math"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset")
)

// Engine is a seeded random source. One engine is created per episode so
// that runs are reproducible for a given seed.
type Engine struct {
	*rand.Rand
}

// New creates an engine from seed plus the global seed offset.
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Normal samples from N(mean, std).
func (e *Engine) Normal(mean, std float64) float64 {
	return mean + std*e.NormFloat64()
}

// NormalClamped samples from N(mean, std) and clamps the result into
// [min, max]. Used for service and travel times where degenerate draws
// must be floored rather than rejected.
func (e *Engine) NormalClamped(mean, std, min, max float64) float64 {
	return math.Min(max, math.Max(min, e.Normal(mean, std)))
}

// Poisson samples a Poisson-distributed count with the given rate.
// Knuth's multiplication method; rates in this simulator are per-second
// passenger demand and stay far below the method's breakdown point.
func (e *Engine) Poisson(rate float64) int {
	if rate <= 0 {
		return 0
	}
	l := math.Exp(-rate)
	k := 0
	p := 1.0
	for {
		p *= e.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// PTrue returns true with probability p.
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// DiscreteDistribution picks an index with probability proportional to
// its weight.
func (e *Engine) DiscreteDistribution(weight []float64) int {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return i
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}
