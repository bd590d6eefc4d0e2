package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

func TestReproducible(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestNormal(t *testing.T) {
	e := randengine.New(1)
	// zero std collapses to the mean
	assert.Equal(t, 60.0, e.Normal(60, 0))

	sum := .0
	const n = 10000
	for i := 0; i < n; i++ {
		sum += e.Normal(10, 2)
	}
	assert.InDelta(t, 10.0, sum/n, 0.2)
}

func TestNormalClamped(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 1000; i++ {
		v := e.NormalClamped(2.5, 5, 0.1, 10)
		assert.GreaterOrEqual(t, v, 0.1)
		assert.LessOrEqual(t, v, 10.0)
	}
}

func TestPoisson(t *testing.T) {
	e := randengine.New(1)
	assert.Equal(t, 0, e.Poisson(0))
	assert.Equal(t, 0, e.Poisson(-1))

	sum := 0
	const n = 10000
	for i := 0; i < n; i++ {
		k := e.Poisson(0.5)
		assert.GreaterOrEqual(t, k, 0)
		sum += k
	}
	assert.InDelta(t, 0.5, float64(sum)/n, 0.05)
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(1)
	// zero-weight entries are never picked
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, e.DiscreteDistribution([]float64{0, 1, 0}))
	}

	counts := make([]int, 2)
	const n = 10000
	for i := 0; i < n; i++ {
		idx := e.DiscreteDistribution([]float64{3, 1})
		counts[idx]++
	}
	assert.InDelta(t, 0.75, float64(counts[0])/n, 0.03)
}
