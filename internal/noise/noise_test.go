package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource returns the same value everywhere and records sample points.
type constSource struct {
	v       float64
	samples [][4]float64
}

func (c *constSource) Eval4(x, y, z, w float64) float64 {
	c.samples = append(c.samples, [4]float64{x, y, z, w})
	return c.v
}

func TestSimplexDeterministic(t *testing.T) {
	a, b := NewSimplex(), NewSimplex()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		x, y, z, w := r.Float64()*40-20, r.Float64()*40-20, r.Float64()*40-20, r.Float64()*40-20
		require.Equal(t, a.Eval4(x, y, z, w), b.Eval4(x, y, z, w))
		require.Equal(t, a.Eval4(x, y, z, w), Default.Eval4(x, y, z, w))
	}
}

func TestSimplexRangeAndFinite(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var lo, hi float64
	for i := 0; i < 20000; i++ {
		v := Default.Eval4(r.NormFloat64()*100, r.NormFloat64()*100, r.NormFloat64()*100, r.NormFloat64()*100)
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite noise %v", v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	assert.GreaterOrEqual(t, lo, -1.0)
	assert.LessOrEqual(t, hi, 1.0)
	// the field should actually use its range
	assert.Less(t, lo, -0.5)
	assert.Greater(t, hi, 0.5)
}

func TestSimplexZeroAtLatticeOrigin(t *testing.T) {
	assert.Equal(t, 0.0, Default.Eval4(0, 0, 0, 0))
	assert.Equal(t, 0.0, NewSeeded(99).Eval4(0, 0, 0, 0))
}

func TestSimplexContinuous(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	const eps = 1e-6
	for i := 0; i < 500; i++ {
		x, y, z, w := r.Float64()*10, r.Float64()*10, r.Float64()*10, r.Float64()*10
		d := math.Abs(Default.Eval4(x, y, z, w) - Default.Eval4(x+eps, y, z, w+eps))
		assert.Less(t, d, 1e-3)
	}
}

func TestSimplexLargeCoordinates(t *testing.T) {
	for _, v := range []float64{-1e6, -1024.5, 1023.99, 1e6, 3.4e38} {
		n := Default.Eval4(v, -v, v/2, 0.25)
		assert.False(t, math.IsNaN(n) || math.IsInf(n, 0), "input %v", v)
	}
}

func TestSeededFieldsDiffer(t *testing.T) {
	a, b := NewSeeded(1), NewSeeded(1)
	c := NewSeeded(2)
	same, diff := 0, 0
	for i := 0; i < 64; i++ {
		x := float64(i)*0.37 + 0.1
		require.Equal(t, a.Eval4(x, x/2, 1.3, 0.7), b.Eval4(x, x/2, 1.3, 0.7))
		if a.Eval4(x, x/2, 1.3, 0.7) == c.Eval4(x, x/2, 1.3, 0.7) {
			same++
		} else {
			diff++
		}
	}
	assert.Greater(t, diff, same)
}

func TestFBM4Normalized(t *testing.T) {
	src := &constSource{v: 1}
	assert.InDelta(t, 1.0, FBM4(src, 1, 2, 3, 4, Cloud), 1e-12)

	src = &constSource{v: -0.5}
	assert.InDelta(t, -0.5, FBM4(src, 1, 2, 3, 4, Cloud), 1e-12)
}

func TestFBM4Frequencies(t *testing.T) {
	src := &constSource{v: 0}
	FBM4(src, 1, 2, 3, 4, Cloud)
	require.Len(t, src.samples, 4)
	for i, s := range src.samples {
		f := math.Pow(2, float64(i))
		assert.Equal(t, [4]float64{f, 2 * f, 3 * f, 4 * f}, s, "octave %d", i)
	}
}

func TestFBM4SingleOctave(t *testing.T) {
	for _, n := range []int{-3, 0, 1} {
		src := &constSource{v: 0.25}
		v := FBM4(src, 5, 6, 7, 8, Octaves{Count: n, Persistence: 0.5, Lacunarity: 2})
		assert.Equal(t, 0.25, v)
		assert.Len(t, src.samples, 1)
	}
}

func TestFBM4Range(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 5000; i++ {
		v := FBM4(Default, r.Float64()*200-100, r.Float64()*200-100, r.Float64()*200-100, r.Float64()*200-100, Cloud)
		require.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestOpenSimplexSource(t *testing.T) {
	a, b := NewOpenSimplex(42), NewOpenSimplex(42)
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.13
		v := a.Eval4(x, -x, x*0.5, 1)
		assert.Equal(t, v, b.Eval4(x, -x, x*0.5, 1))
		assert.False(t, math.IsNaN(v))
	}
	assert.NotPanics(t, func() { FBM4(a, 0.5, 0.5, 0.5, 0.5, Cloud) })
}
