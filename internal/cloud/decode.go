package cloud

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/layout"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/render"
)

const (
	// PositionSize is the encoded size of one LED position.
	PositionSize = 12
	// LightningFields is the arity of one lightning record.
	LightningFields = 7
)

// Limits bounds the size of a single frame. A zero field is unbounded.
type Limits struct {
	MaxLEDs      int `yaml:"max_leds" json:"max_leds"`
	MaxLightning int `yaml:"max_lightning" json:"max_lightning"`
}

// DefaultLimits is large enough for any real sculpture.
var DefaultLimits = Limits{MaxLEDs: 1 << 22, MaxLightning: 4096}

// DecodeModel reads packed little-endian float32 (x, y, z) triples.
func DecodeModel(b []byte) ([]r3.Vector, error) {
	if _, err := modelLen(b); err != nil {
		return nil, err
	}
	pts, err := layout.Unpack(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	return pts, nil
}

func modelLen(b []byte) (int, error) {
	if rem := len(b) % PositionSize; rem != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of %d (%d left over)",
			ErrMalformedModel, len(b), PositionSize, rem)
	}
	return len(b) / PositionSize, nil
}

// DecodeMatrix wants exactly 16 column-major values.
func DecodeMatrix(v []float64) (render.Matrix, error) {
	var m render.Matrix
	if len(v) != len(m) {
		return m, fmt.Errorf("%w: matrix has %d values, want %d", ErrMalformedArgs, len(v), len(m))
	}
	copy(m[:], v)
	return m, nil
}

// DecodeColor wants exactly 3 values. name only labels the error.
func DecodeColor(name string, v []float64) (colorful.Color, error) {
	if len(v) != 3 {
		return colorful.Color{}, fmt.Errorf("%w: %s has %d values, want 3", ErrMalformedArgs, name, len(v))
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}, nil
}

// DecodeLightning converts 7-float records into lights. A nil or empty
// list is valid.
func DecodeLightning(recs [][]float64) ([]render.Light, error) {
	out := make([]render.Light, len(recs))
	for i, r := range recs {
		if len(r) != LightningFields {
			return nil, fmt.Errorf("%w: record %d has %d fields, want %d",
				ErrMalformedLightning, i, len(r), LightningFields)
		}
		f := r[6]
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("%w: record %d falloff %v", ErrMalformedLightning, i, f)
		}
		out[i] = render.Light{
			Center:  r3.Vector{X: r[0], Y: r[1], Z: r[2]},
			Color:   colorful.Color{R: r[3], G: r[4], B: r[5]},
			Falloff: f,
		}
	}
	return out, nil
}

func (l Limits) check(leds, lights int) error {
	if l.MaxLEDs > 0 && leds > l.MaxLEDs {
		return fmt.Errorf("%w: %d LEDs exceeds limit of %d", ErrOutOfMemory, leds, l.MaxLEDs)
	}
	if l.MaxLightning > 0 && lights > l.MaxLightning {
		return fmt.Errorf("%w: %d lightning records exceeds limit of %d", ErrOutOfMemory, lights, l.MaxLightning)
	}
	return nil
}
