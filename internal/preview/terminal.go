package preview

import (
	"errors"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Terminal prints the frame to stdout as a strip of colored cells.
func Terminal(rgb []byte) error {
	n := len(rgb) / 3
	if n == 0 {
		return errors.New("preview: empty frame")
	}
	var d display.Drawer = screen.New(n)
	defer d.Halt()
	return d.Draw(d.Bounds(), Image(rgb, n), image.Point{})
}
