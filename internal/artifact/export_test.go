package artifact

import (
	"image"
	"io"
)

// SetEncodePNG swaps the PNG encoder used by PNGSink and returns a restore func.
func SetEncodePNG(fn func(io.Writer, image.Image) error) func() {
	prev := encodePNG
	encodePNG = fn
	return func() { encodePNG = prev }
}
