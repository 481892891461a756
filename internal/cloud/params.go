package cloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/render"
)

// The noise field wraps at this many units; translations are reduced
// modulo it so large offsets keep their precision once packed as float32.
const noisePeriod = 1024.0

// Params are the performer-facing knobs that shape one cloud frame.
type Params struct {
	// Detail scales model space into noise space.
	Detail float64 `yaml:"detail" json:"detail"`
	// Rotation about Z, in degrees.
	Rotation float64 `yaml:"rotation" json:"rotation"`
	// Translation in noise space; the fourth axis is turbulence.
	Translation [4]float64 `yaml:"translation,flow" json:"translation"`
	// Temperature of the white point, in Kelvin.
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Brightness  float64 `yaml:"brightness" json:"brightness"`
	// Contrast is a proportion of Brightness.
	Contrast float64 `yaml:"contrast" json:"contrast"`
}

func DefaultParams() Params {
	return Params{
		Detail:      0.8,
		Temperature: 6800,
		Brightness:  0.3,
		Contrast:    0.9,
	}
}

// Matrix is a Z rotation scaled by Detail followed by Translation.
func (p Params) Matrix() render.Matrix {
	z := p.Detail
	a := p.Rotation * math.Pi / 180
	s, c := z*math.Sin(a), z*math.Cos(a)
	var t [4]float64
	for i, v := range p.Translation {
		t[i] = math.Mod(v, noisePeriod)
	}
	return render.Matrix{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, z, 0,
		t[0], t[1], t[2], t[3],
	}
}

// Colors returns the base and noise colors for the configured white point.
func (p Params) Colors() (base, noise colorful.Color) {
	white := TemperatureToRGB(p.Temperature)
	base = scale(white, p.Brightness)
	noise = scale(base, p.Contrast)
	return base, noise
}

// Request encodes p together with a packed model and lightning records.
func (p Params) Request(model []byte, lightning [][]float64) *Request {
	m := p.Matrix()
	base, noise := p.Colors()
	return &Request{
		Model:      model,
		Matrix:     m[:],
		BaseColor:  []float64{base.R, base.G, base.B},
		NoiseColor: []float64{noise.R, noise.G, noise.B},
		Lightning:  lightning,
	}
}

// LightningRecord is a plain white bolt of the given luma.
func LightningRecord(center r3.Vector, luma, falloff float64) []float64 {
	return ColoredLightningRecord(center, colorful.Color{R: luma, G: luma, B: luma}, falloff)
}

func ColoredLightningRecord(center r3.Vector, c colorful.Color, falloff float64) []float64 {
	return []float64{center.X, center.Y, center.Z, c.R, c.G, c.B, falloff}
}

// TemperatureToRGB approximates the color of a black body at kelvin, with
// each channel clipped to [0, 1]. See
// http://www.tannerhelland.com/4435/convert-temperature-rgb-algorithm-code/
func TemperatureToRGB(kelvin float64) colorful.Color {
	t := kelvin / 100
	var r, g, b float64
	if t <= 66 {
		r = 1
		g = 0.3900815787690196*math.Log(t) - 0.6318414437886275
		if t <= 19 {
			b = 0
		} else {
			b = 0.543206789110196*math.Log(t-10) - 1.19625408914
		}
	} else {
		r = 1.292936186062745 * math.Pow(t-60, -0.1332047592)
		g = 1.129890860895294 * math.Pow(t-60, -0.0755148492)
		b = 1
	}
	return colorful.Color{R: clip(r), G: clip(g), B: clip(b)}
}

func clip(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}
