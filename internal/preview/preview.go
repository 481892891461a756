// Package preview turns a packed RGB frame into a picture, one cell per
// LED, for checking an effect without hardware.
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Image lays LEDs out row-major, columns per row. columns <= 0 puts the
// whole frame on one row. Cells past the last LED stay transparent.
func Image(rgb []byte, columns int) *image.NRGBA {
	n := len(rgb) / 3
	if columns <= 0 {
		columns = n
	}
	rows := 0
	if columns > 0 {
		rows = (n + columns - 1) / columns
	}
	img := image.NewNRGBA(image.Rect(0, 0, columns, rows))
	for i := 0; i < n; i++ {
		img.SetNRGBA(i%columns, i/columns, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255})
	}
	return img
}

// WritePNG encodes Image(rgb, columns) with every cell blown up to
// scale x scale pixels.
func WritePNG(w io.Writer, rgb []byte, columns, scale int) error {
	if len(rgb) < 3 {
		return errors.New("preview: empty frame")
	}
	if scale < 1 {
		scale = 1
	}
	src := Image(rgb, columns)
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, dst)
}
