// internal/escpos/raster_test.go
package escpos

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodePNG builds a solid-color PNG of the given size.
func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRaster_AllBlack(t *testing.T) {
	data, err := Raster(encodePNG(t, 8, 8, color.RGBA{0, 0, 0, 255}))
	require.NoError(t, err)

	// GS v 0 header, width 1 byte, height 8 rows.
	expected := append([]byte{}, RasterImage...)
	expected = append(expected, 0x01, 0x00, 0x08, 0x00)
	for i := 0; i < 8; i++ {
		expected = append(expected, 0xFF)
	}

	assert.Equal(t, expected, data)
}

func TestRaster_AllWhite(t *testing.T) {
	data, err := Raster(encodePNG(t, 8, 8, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, err)

	header := len(RasterImage) + 4
	require.Len(t, data, header+8)
	for _, b := range data[header:] {
		assert.Equal(t, byte(0x00), b)
	}
}

func TestRaster_WidthPaddedToByte(t *testing.T) {
	// 3 pixels wide still occupies a full byte per row, blank bits at the
	// tail.
	data, err := Raster(encodePNG(t, 3, 2, color.RGBA{0, 0, 0, 255}))
	require.NoError(t, err)

	expected := append([]byte{}, RasterImage...)
	expected = append(expected, 0x01, 0x00, 0x02, 0x00)
	expected = append(expected, 0xE0, 0xE0) // 11100000

	assert.Equal(t, expected, data)
}

func TestRaster_WideImageHeader(t *testing.T) {
	data, err := Raster(encodePNG(t, 200, 1, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, err)

	// 200 px -> 25 bytes per row, little-endian header fields.
	offset := len(RasterImage)
	assert.Equal(t, byte(25), data[offset])
	assert.Equal(t, byte(0), data[offset+1])
	assert.Equal(t, byte(1), data[offset+2])
	assert.Equal(t, byte(0), data[offset+3])
	assert.Len(t, data, offset+4+25)
}

func TestRaster_ThresholdSplitsGrays(t *testing.T) {
	dark, err := Raster(encodePNG(t, 8, 1, color.RGBA{100, 100, 100, 255}))
	require.NoError(t, err)
	light, err := Raster(encodePNG(t, 8, 1, color.RGBA{200, 200, 200, 255}))
	require.NoError(t, err)

	assert.Equal(t, byte(0xFF), dark[len(dark)-1])
	assert.Equal(t, byte(0x00), light[len(light)-1])
}

func TestRaster_InvalidPNG(t *testing.T) {
	_, err := Raster([]byte("not a png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode PNG")
}
