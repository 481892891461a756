package layout

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSerpentine(t *testing.T) {
	l := Layout{Dim: Dim{X: 3, Y: 2, Z: 2}, Order: Serpentine{XFlipEveryRow: true, YFlipEveryPanel: true}}
	assert.Equal(t, 0, l.Index(0, 0, 0))
	assert.Equal(t, 2, l.Index(2, 0, 0))
	assert.Equal(t, 5, l.Index(0, 1, 0))
	assert.Equal(t, 3, l.Index(2, 1, 0))
	// odd panel runs Y backwards
	assert.Equal(t, 9, l.Index(0, 0, 1))
	assert.Equal(t, 6, l.Index(2, 1, 1))
	assert.Equal(t, 12, l.Count())
}

func TestPointsCoverEveryIndex(t *testing.T) {
	l := Layout{
		Dim:        Dim{X: 4, Y: 3, Z: 2},
		Order:      Serpentine{XFlipEveryRow: true},
		PitchMM:    10,
		PanelGapMM: 40,
	}
	pts := l.Points()
	require.Len(t, pts, 24)

	seen := map[r3.Vector]bool{}
	for _, p := range pts {
		seen[p] = true
	}
	assert.Len(t, seen, 24)

	assert.Equal(t, r3.Vector{}, pts[0])
	assert.InDelta(t, 0.03, pts[l.Index(3, 0, 0)].X, 1e-12)
	assert.InDelta(t, 0.02, pts[l.Index(3, 2, 0)].Y, 1e-12)
	assert.InDelta(t, 0.05, pts[l.Index(0, 0, 1)].Z, 1e-12)
}

func TestPointsEmpty(t *testing.T) {
	assert.Empty(t, Layout{Dim: Dim{X: 4, Y: 0, Z: 2}}.Points())
	assert.Equal(t, 0, Layout{Dim: Dim{X: -1, Y: -1, Z: 1}}.Count())
}

func TestStrips(t *testing.T) {
	s := NewStrips(10, 0.5)
	require.NoError(t, s.Place(0, r3.Vector{X: 1}, r3.Vector{Y: 7}, 3))
	require.NoError(t, s.Bent(3, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Z: 2}, 1, 5))

	pts := s.Points(r3.Vector{Z: 10})
	assert.Equal(t, r3.Vector{X: 1, Y: 1, Z: 10}, pts[2])
	assert.Equal(t, r3.Vector{X: 0.5, Z: 10}, pts[4])
	// second leg starts at the corner
	assert.Equal(t, r3.Vector{X: 1, Z: 10}, pts[5])
	assert.Equal(t, r3.Vector{X: 1, Z: 11}, pts[7])
	// untouched slots stay at the origin
	assert.Equal(t, r3.Vector{Z: 10}, pts[9])

	assert.Error(t, s.Place(8, r3.Vector{}, r3.Vector{X: 1}, 5))
	assert.Error(t, s.Place(0, r3.Vector{}, r3.Vector{}, 1))
	assert.Error(t, s.Bent(0, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1}, 4, 3))
}

func TestAMCP(t *testing.T) {
	pts := AMCP()
	require.Len(t, pts, 2560)

	lo, hi := Bounds(pts)
	assert.InDelta(t, -inches(45), lo.X, 1e-9)
	assert.InDelta(t, inches(45), hi.X, 1e-9)
	assert.InDelta(t, -inches(24), lo.Y, 1e-9)
	assert.InDelta(t, inches(24), hi.Y, 1e-9)
	assert.InDelta(t, -inches(21), lo.Z, 1e-9)

	assert.InDelta(t, 1.0/30, pts[1].Sub(pts[0]).Norm(), 1e-9)
	assert.InDelta(t, 1.0/30, pts[2559].Sub(pts[2558]).Norm(), 1e-9)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds(nil)
	assert.Equal(t, r3.Vector{}, lo)
	assert.Equal(t, r3.Vector{}, hi)

	lo, hi = Bounds([]r3.Vector{{X: 1, Y: -2, Z: 3}, {X: -4, Y: 5, Z: 0}})
	assert.Equal(t, r3.Vector{X: -4, Y: -2, Z: 0}, lo)
	assert.Equal(t, r3.Vector{X: 1, Y: 5, Z: 3}, hi)
}

func TestOPCFile(t *testing.T) {
	pts := []r3.Vector{{X: 0.25, Y: -1, Z: 2}, {X: 3}}
	var buf bytes.Buffer
	require.NoError(t, WriteOPC(&buf, pts))
	assert.Contains(t, buf.String(), `"point"`)

	path := filepath.Join(t.TempDir(), "leds.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pts, back)

	_, err = Parse([]byte(`[{"point": [1, 2, 3]}, {}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LED 1")
	_, err = Parse([]byte(`{"point": 1}`))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestPackFloat32(t *testing.T) {
	pts := []r3.Vector{{X: 1, Y: -2, Z: 0.5}, {X: 0.1}}
	b := Pack(pts)
	require.Len(t, b, 24)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[0:4])

	back, err := Unpack(b)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, pts[0], back[0])
	assert.Equal(t, float64(float32(0.1)), back[1].X)
	assert.NotEqual(t, 0.1, back[1].X)
	assert.False(t, math.IsNaN(back[1].Y))
}

func TestUnpackRejectsPartialTriple(t *testing.T) {
	b := Pack([]r3.Vector{{X: 1}, {Y: 2}})
	for _, cut := range []int{1, 4, 11, 13, 23} {
		out, err := Unpack(b[:cut])
		assert.Error(t, err, "length %d", cut)
		assert.Nil(t, out, "length %d", cut)
	}
	out, err := Unpack(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
