package render

import (
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/noise"
)

// Matrix is a column-major 4x4 matrix.
type Matrix [16]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Apply multiplies the homogeneous point (p, 1) by m. The w result is
// used only as the fourth noise axis.
func (m *Matrix) Apply(p r3.Vector) (x, y, z, w float64) {
	x = m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y = m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z = m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w = m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	return
}

// Light is a point light ("lightning") in model space.
type Light struct {
	Center  r3.Vector
	Color   colorful.Color
	Falloff float64
}

// Intensity is 1/(1+Falloff*d^2) where d is the model-space distance from
// the light to p. It is 1 at the center and never reaches 0.
func (l *Light) Intensity(p r3.Vector) float64 {
	return 1 / (1 + l.Falloff*l.Center.Sub(p).Norm2())
}

// Args holds everything shared by every LED in one frame. It must not be
// modified while a render using it is in flight.
type Args struct {
	Matrix    Matrix
	Base      colorful.Color
	Noise     colorful.Color
	Lightning []Light

	// Source defaults to noise.Default and Octaves to noise.Cloud.
	Source  noise.Source
	Octaves noise.Octaves
}

func (a *Args) source() noise.Source {
	if a.Source == nil {
		return noise.Default
	}
	return a.Source
}

func (a *Args) octaves() noise.Octaves {
	if a.Octaves == (noise.Octaves{}) {
		return noise.Cloud
	}
	return a.Octaves
}
