package cloud

import "errors"

// Every error returned by Render wraps exactly one of these.
var (
	// ErrMalformedModel means the position blob is not a whole number of
	// 12-byte (x, y, z float32) records.
	ErrMalformedModel = errors.New("malformed model")

	// ErrMalformedLightning means a lightning record is not 7 floats
	// (cx, cy, cz, r, g, b, falloff) or its falloff is negative or not finite.
	ErrMalformedLightning = errors.New("malformed lightning record")

	// ErrMalformedArgs means the matrix is not 16 floats or a color is not 3.
	ErrMalformedArgs = errors.New("malformed arguments")

	// ErrOutOfMemory means the frame would exceed the configured Limits.
	ErrOutOfMemory = errors.New("out of memory")
)
