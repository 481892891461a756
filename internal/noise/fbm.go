package noise

import "github.com/ojrac/opensimplex-go"

// Octaves configures a fractional Brownian motion sum.
type Octaves struct {
	Count       int     // layers summed; values below 1 mean 1
	Persistence float64 // amplitude multiplier per layer
	Lacunarity  float64 // frequency multiplier per layer
}

// Cloud is the octave setup used by the cloud renderer.
var Cloud = Octaves{Count: 4, Persistence: 0.5, Lacunarity: 2.0}

// FBM4 sums o.Count layers of src, layer i sampled at frequency
// Lacunarity^i with weight Persistence^i, and divides by the total weight
// so the result stays in the range of a single layer.
func FBM4(src Source, x, y, z, w float64, o Octaves) float64 {
	freq, amp, norm := 1.0, 1.0, 1.0
	total := src.Eval4(x, y, z, w)
	for i := 1; i < o.Count; i++ {
		freq *= o.Lacunarity
		amp *= o.Persistence
		norm += amp
		total += amp * src.Eval4(x*freq, y*freq, z*freq, w*freq)
	}
	return total / norm
}

// NewOpenSimplex returns an OpenSimplex field for seed.
func NewOpenSimplex(seed int64) Source {
	return opensimplex.New(seed)
}
