// internal/escpos/command.go
package escpos

// ESC/POS command sequences for EPSON-compatible thermal printers.
var (
	// Basic
	Initialize    = []byte{0x1B, 0x40}       // ESC @
	StatusRequest = []byte{0x10, 0x04, 0x01} // DLE EOT 1

	// Text formatting
	BoldOn  = []byte{0x1B, 0x45, 0x01} // ESC E 1
	BoldOff = []byte{0x1B, 0x45, 0x00} // ESC E 0

	// Character size
	SizeNormal       = []byte{0x1D, 0x21, 0x00} // GS ! 0
	SizeDoubleHeight = []byte{0x1D, 0x21, 0x10} // GS ! 16
	SizeDoubleWidth  = []byte{0x1D, 0x21, 0x20} // GS ! 32
	SizeDoubleBoth   = []byte{0x1D, 0x21, 0x30} // GS ! 48

	// Alignment
	AlignLeft   = []byte{0x1B, 0x61, 0x00} // ESC a 0
	AlignCenter = []byte{0x1B, 0x61, 0x01} // ESC a 1
	AlignRight  = []byte{0x1B, 0x61, 0x02} // ESC a 2

	// Paper handling
	LineFeed  = []byte{0x0A}       // LF
	FeedLines = []byte{0x1B, 0x64} // ESC d + n

	// Cutting
	CutFull    = []byte{0x1D, 0x56, 0x00} // GS V 0
	CutPartial = []byte{0x1D, 0x56, 0x01} // GS V 1

	// Raster bit image, normal density. Followed by width-in-bytes and
	// height as little-endian uint16 pairs, then packed pixel rows.
	RasterImage = []byte{0x1D, 0x76, 0x30, 0x00} // GS v 0
)
