// Package layout describes where the LEDs are. Positions are in meters,
// in LED index order, which is the order the renderer expects.
package layout

import "github.com/golang/geo/r3"

type Dim struct{ X, Y, Z int }

type Serpentine struct {
	XFlipEveryRow   bool
	YFlipEveryPanel bool
}

// Layout is a regular grid of panels stacked along Z.
type Layout struct {
	Dim        Dim
	Order      Serpentine
	PanelGapMM float64
	PitchMM    float64
}

// Index maps x,y,z -> linear LED index (0..N-1)
func (l Layout) Index(x, y, z int) int {
	yy := y
	xx := x
	if (y%2 == 1) && l.Order.XFlipEveryRow {
		xx = l.Dim.X - 1 - x
	}
	if l.Order.YFlipEveryPanel && (z%2 == 1) {
		yy = l.Dim.Y - 1 - y
	}
	perPanel := l.Dim.X * l.Dim.Y
	return z*perPanel + yy*l.Dim.X + xx
}

func (l Layout) Count() int {
	if l.Dim.X <= 0 || l.Dim.Y <= 0 || l.Dim.Z <= 0 {
		return 0
	}
	return l.Dim.X * l.Dim.Y * l.Dim.Z
}

// Points returns the position of every LED, indexed as Index does. LEDs
// are PitchMM apart within a panel; panels are PitchMM+PanelGapMM apart.
func (l Layout) Points() []r3.Vector {
	out := make([]r3.Vector, l.Count())
	if len(out) == 0 {
		return out
	}
	pitch := l.PitchMM / 1000
	panel := (l.PitchMM + l.PanelGapMM) / 1000
	for z := 0; z < l.Dim.Z; z++ {
		for y := 0; y < l.Dim.Y; y++ {
			for x := 0; x < l.Dim.X; x++ {
				out[l.Index(x, y, z)] = r3.Vector{
					X: float64(x) * pitch,
					Y: float64(y) * pitch,
					Z: float64(z) * panel,
				}
			}
		}
	}
	return out
}
