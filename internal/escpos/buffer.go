// internal/escpos/buffer.go
package escpos

import "bytes"

// Buffer accumulates an ESC/POS command stream. It is append-only; once the
// byte slice is handed to a transport it must not be written to again.
type Buffer struct {
	buf bytes.Buffer
}

// NewBuffer creates an empty command buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Raw appends raw command bytes.
func (b *Buffer) Raw(cmd []byte) *Buffer {
	b.buf.Write(cmd)
	return b
}

// Text appends literal text without a trailing line feed.
func (b *Buffer) Text(s string) *Buffer {
	b.buf.WriteString(s)
	return b
}

// Line appends text followed by a line feed.
func (b *Buffer) Line(s string) *Buffer {
	b.buf.WriteString(s)
	b.buf.Write(LineFeed)
	return b
}

// Feed advances the paper n lines.
func (b *Buffer) Feed(n int) *Buffer {
	if n <= 0 {
		return b
	}
	b.buf.Write(FeedLines)
	b.buf.WriteByte(byte(n))
	return b
}

// Cut appends the full paper cut command.
func (b *Buffer) Cut() *Buffer {
	b.buf.Write(CutFull)
	return b
}

// Len returns the current buffer length in bytes.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Bytes returns the accumulated command stream.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}
