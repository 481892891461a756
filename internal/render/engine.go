package render

import (
	"runtime"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/golang/geo/r3"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/noise"
)

// Engine shades a frame of LEDs, splitting the positions into contiguous
// ranges that are shaded concurrently. Each range writes only its own
// slice of the output, so no locking is needed.
type Engine struct {
	// Workers caps the number of ranges. 0 uses GOMAXPROCS; 1 is serial.
	Workers int
	// MinChunk is the smallest range worth a goroutine. 0 means 256 LEDs.
	MinChunk int
}

// DefaultEngine is used by the package-level Render.
var DefaultEngine = &Engine{}

// Render shades positions with DefaultEngine.
func Render(positions []r3.Vector, a *Args) []byte {
	return DefaultEngine.Render(positions, a)
}

// Render returns 3*len(positions) bytes, R,G,B per LED in input order.
func (e *Engine) Render(positions []r3.Vector, a *Args) []byte {
	out := make([]byte, BytesPerLED*len(positions))
	e.RenderInto(out, positions, a)
	return out
}

// RenderInto shades positions into dst, which must hold 3*len(positions)
// bytes.
func (e *Engine) RenderInto(dst []byte, positions []r3.Vector, a *Args) {
	n := len(positions)
	if len(dst) < BytesPerLED*n {
		panic("render: destination buffer too small")
	}
	src, oct := a.source(), a.octaves()

	chunk := e.chunkSize(n)
	if chunk >= n {
		shadeRange(dst, positions, a, 0, n, src, oct)
		return
	}
	ranges := (n + chunk - 1) / chunk
	parallel.For(ranges, func(i, _ int) {
		lo := i * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		shadeRange(dst, positions, a, lo, hi, src, oct)
	})
}

func shadeRange(dst []byte, positions []r3.Vector, a *Args, lo, hi int, src noise.Source, oct noise.Octaves) {
	for i := lo; i < hi; i++ {
		Pack(shade(positions[i], a, src, oct), dst[i*BytesPerLED:])
	}
}

// Parallelism is the most ranges a frame is split into.
func (e *Engine) Parallelism() int {
	if e.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Workers
}

func (e *Engine) chunkSize(n int) int {
	workers := e.Parallelism()
	if workers == 1 || n == 0 {
		return n
	}
	floor := e.MinChunk
	if floor <= 0 {
		floor = 256
	}
	chunk := (n + workers - 1) / workers
	if chunk < floor {
		chunk = floor
	}
	return chunk
}
