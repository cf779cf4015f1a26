// internal/transport/frame.go
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame body. Anything larger is treated as a
// corrupted length prefix rather than buffered indefinitely.
const MaxFrameSize = 8 << 20

const lengthPrefixSize = 4

// FrameReader is an incremental parser for the native-messaging wire
// format: a 4-byte little-endian length prefix followed by that many
// payload bytes. It accumulates input across Feed calls, so chunk
// boundaries may fall anywhere, including mid-prefix.
type FrameReader struct {
	buf []byte
}

// NewFrameReader creates an empty frame parser.
func NewFrameReader() *FrameReader {
	return &FrameReader{}
}

// Feed appends a chunk of bytes and returns every complete frame payload
// now available, in arrival order. A corrupted length prefix returns an
// error; the reader must be discarded afterwards because the stream
// position can no longer be trusted.
func (r *FrameReader) Feed(chunk []byte) ([][]byte, error) {
	r.buf = append(r.buf, chunk...)

	var frames [][]byte
	for {
		if len(r.buf) < lengthPrefixSize {
			return frames, nil
		}

		length := binary.LittleEndian.Uint32(r.buf[:lengthPrefixSize])
		if length > MaxFrameSize {
			return frames, fmt.Errorf("frame length %d exceeds limit of %d bytes", length, MaxFrameSize)
		}

		total := lengthPrefixSize + int(length)
		if len(r.buf) < total {
			return frames, nil
		}

		payload := make([]byte, length)
		copy(payload, r.buf[lengthPrefixSize:total])
		frames = append(frames, payload)
		r.buf = r.buf[total:]
	}
}

// Pending returns the number of buffered bytes not yet forming a frame.
func (r *FrameReader) Pending() int {
	return len(r.buf)
}

// WriteFrame writes a single length-prefixed frame to w.
func WriteFrame(w io.Writer, payload []byte) error {
	var prefix [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))

	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write frame body: %w", err)
	}
	return nil
}
