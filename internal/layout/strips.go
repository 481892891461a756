package layout

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Strips places runs of evenly spaced LEDs by hand. Slots that no strip
// covers stay at the origin.
type Strips struct {
	Spacing float64
	points  []r3.Vector
}

func NewStrips(count int, spacing float64) *Strips {
	return &Strips{Spacing: spacing, points: make([]r3.Vector, count)}
}

// Place puts count LEDs starting at index first, beginning at origin and
// stepping Spacing along dir.
func (s *Strips) Place(first int, origin, dir r3.Vector, count int) error {
	if first < 0 || count < 0 || first+count > len(s.points) {
		return fmt.Errorf("strip [%d,%d) outside %d LEDs", first, first+count, len(s.points))
	}
	if dir.Norm2() == 0 {
		return fmt.Errorf("strip at %d has no direction", first)
	}
	step := dir.Normalize().Mul(s.Spacing)
	p := origin
	for i := first; i < first+count; i++ {
		s.points[i] = p
		p = p.Add(step)
	}
	return nil
}

// Bent places a strip of count LEDs that runs length meters along dir1,
// then turns and continues along dir2.
func (s *Strips) Bent(first int, origin, dir1, dir2 r3.Vector, length float64, count int) error {
	n := int(length / s.Spacing)
	if n > count {
		return fmt.Errorf("strip at %d: first leg of %d LEDs is longer than the strip", first, n)
	}
	corner := origin.Add(dir1.Normalize().Mul(length))
	if err := s.Place(first, origin, dir1, n); err != nil {
		return err
	}
	return s.Place(first+n, corner, dir2, count-n)
}

// Points returns the placed positions, shifted by offset.
func (s *Strips) Points(offset r3.Vector) []r3.Vector {
	out := make([]r3.Vector, len(s.points))
	for i, p := range s.points {
		out[i] = p.Add(offset)
	}
	return out
}

func inches(v float64) float64 { return v * 2.54 / 100 }

// AMCP builds the cloud platform: five controllers of eight 64-LED
// channels on the bottom, front and wrapped sides, spaced 30 per meter,
// centered on the platform.
func AMCP() []r3.Vector {
	const (
		controllers = 5
		channels    = 8
		perChannel  = 64
	)
	var (
		height = inches(42)
		width  = inches(90)
		depth  = inches(48)
	)
	s := NewStrips(controllers*channels*perChannel, 1.0/30)
	at := func(controller, channel int) int {
		return (controller*channels + channel) * perChannel
	}
	mustPlace := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	x := r3.Vector{X: 1}
	y := r3.Vector{Y: 1}
	cx := (width - (perChannel-1)*s.Spacing) / 2

	// bottom: 16 strips across the width
	for i := 0; i < 2*channels; i++ {
		mustPlace(s.Place(at(i/channels, i%channels), r3.Vector{X: cx, Y: depth / 16 * float64(i)}, x, perChannel))
	}
	for i := 0; i < channels; i++ {
		z := height / 8 * float64(i)
		// front
		mustPlace(s.Place(at(2, i), r3.Vector{X: cx, Z: z}, x, perChannel))
		// left and right sides, wrapping onto the back
		mustPlace(s.Bent(at(3, i), r3.Vector{Z: z}, y, x, depth, perChannel))
		mustPlace(s.Bent(at(4, i), r3.Vector{X: width, Z: z}, y, x.Mul(-1), depth, perChannel))
	}
	return s.Points(r3.Vector{X: -width / 2, Y: -depth / 2, Z: -height / 2})
}

// Bounds returns the axis-aligned box around points. Both corners are
// zero for an empty list.
func Bounds(points []r3.Vector) (lo, hi r3.Vector) {
	if len(points) == 0 {
		return
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return
}
