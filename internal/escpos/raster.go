// internal/escpos/raster.go
package escpos

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// inkThreshold separates ink from blank on the 0-255 luminance scale.
// Pixels darker than this print (bit=1), per the GS v 0 raster format.
const inkThreshold = 128

// Raster converts a PNG image into a GS v 0 raster bit-image command.
// Each output byte packs 8 horizontally-consecutive pixels, most
// significant bit first; rows are emitted in order and the width is
// padded up to the next multiple of 8 with blank bits.
func Raster(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	widthBytes := (width + 7) / 8

	data := make([]byte, 0, len(RasterImage)+4+widthBytes*height)
	data = append(data, RasterImage...)
	data = append(data, byte(widthBytes), byte(widthBytes>>8))
	data = append(data, byte(height), byte(height>>8))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for xb := 0; xb < widthBytes; xb++ {
			var packed byte
			for bit := 0; bit < 8; bit++ {
				x := bounds.Min.X + xb*8 + bit
				if x >= bounds.Max.X {
					break
				}
				if isInk(img, x, y) {
					packed |= 0x80 >> bit
				}
			}
			data = append(data, packed)
		}
	}

	return data, nil
}

// isInk reports whether a pixel is dark enough to print.
func isInk(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	// RGBA returns 16-bit channels; scale down before averaging.
	luminance := (r>>8 + g>>8 + b>>8) / 3
	return luminance < inkThreshold
}
