package layout

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
)

// opcPoint is one entry of an Open Pixel Control layout file.
type opcPoint struct {
	Point *[3]float64 `json:"point"`
}

// Load reads an Open Pixel Control JSON layout: [{"point": [x, y, z]}, ...].
func Load(path string) ([]r3.Vector, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) ([]r3.Vector, error) {
	var entries []opcPoint
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	out := make([]r3.Vector, len(entries))
	for i, e := range entries {
		if e.Point == nil {
			return nil, fmt.Errorf("parse layout: LED %d has no point", i)
		}
		out[i] = r3.Vector{X: e.Point[0], Y: e.Point[1], Z: e.Point[2]}
	}
	return out, nil
}

// WriteOPC writes points in the format Load reads.
func WriteOPC(w io.Writer, points []r3.Vector) error {
	entries := make([]opcPoint, len(points))
	for i, p := range points {
		entries[i].Point = &[3]float64{p.X, p.Y, p.Z}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(entries)
}

// Pack encodes points as little-endian float32 (x, y, z) triples, the
// model format the renderer accepts.
func Pack(points []r3.Vector) []byte {
	b := make([]byte, 12*len(points))
	for i, p := range points {
		o := b[i*12:]
		binary.LittleEndian.PutUint32(o[0:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(o[4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(o[8:], math.Float32bits(float32(p.Z)))
	}
	return b
}

// Unpack is the inverse of Pack. b must be a whole number of triples.
func Unpack(b []byte) ([]r3.Vector, error) {
	if rem := len(b) % 12; rem != 0 {
		return nil, fmt.Errorf("unpack: %d bytes is not a multiple of 12 (%d left over)", len(b), rem)
	}
	out := make([]r3.Vector, len(b)/12)
	for i := range out {
		o := b[i*12:]
		out[i] = r3.Vector{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(o[0:]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(o[4:]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(o[8:]))),
		}
	}
	return out, nil
}
