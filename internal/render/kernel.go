package render

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/noise"
)

// BytesPerLED is the size of one packed output pixel.
const BytesPerLED = 3

// Shade computes the unquantized color of the LED at model position p.
func Shade(p r3.Vector, a *Args) colorful.Color {
	return shade(p, a, a.source(), a.octaves())
}

func shade(p r3.Vector, a *Args, src noise.Source, oct noise.Octaves) colorful.Color {
	x, y, z, w := a.Matrix.Apply(p)
	n := noise.FBM4(src, x, y, z, w, oct)

	c := colorful.Color{
		R: a.Base.R + n*a.Noise.R,
		G: a.Base.G + n*a.Noise.G,
		B: a.Base.B + n*a.Noise.B,
	}

	// Lightning falls off with distance in model space, not noise space.
	for i := range a.Lightning {
		lt := &a.Lightning[i]
		k := lt.Intensity(p)
		c.R += k * lt.Color.R
		c.G += k * lt.Color.G
		c.B += k * lt.Color.B
	}
	return c
}

// PackChannel clamps v to [0,1] and scales it to a byte, rounding half up.
// NaN packs to 0.
func PackChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Pack writes c as R, G, B into dst[0:3].
func Pack(c colorful.Color, dst []byte) {
	_ = dst[2]
	dst[0] = PackChannel(c.R)
	dst[1] = PackChannel(c.G)
	dst[2] = PackChannel(c.B)
}
