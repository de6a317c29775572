// Package bitio wraps github.com/icza/bitio with the thin read/write
// surface the CoST bit-stream layout needs (see spec §6): bit-at-a-time and
// fixed-width-field access, byte-aligned flush on the write side, and
// graceful end-of-stream signalling on the read side.
package bitio

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// Writer accumulates a bit stream in memory and exposes it as bytes once
// flushed. It mirrors the construction mewkiz/flac's encoder uses: a
// bitio.Writer over a bytes.Buffer, so Close (byte-align flush) never also
// closes the caller's io.Writer.
type Writer struct {
	buf *bytes.Buffer
	bw  *bitio.Writer
}

// NewWriter returns a Writer with an empty backing buffer.
func NewWriter() *Writer {
	buf := new(bytes.Buffer)
	return &Writer{
		buf: buf,
		bw:  bitio.NewWriter(buf),
	}
}

// WriteBit writes a single bit and returns the number of bits written (1).
func (w *Writer) WriteBit(bit bool) (int, error) {
	if err := w.bw.WriteBool(bit); err != nil {
		return 0, errutil.Err(err)
	}
	return 1, nil
}

// WriteBits writes the low n bits of v, most-significant bit first, and
// returns n.
func (w *Writer) WriteBits(v uint64, n byte) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if err := w.bw.WriteBits(v, n); err != nil {
		return 0, errutil.Err(err)
	}
	return int(n), nil
}

// WriteU32 writes the low n bits of a 32-bit field.
func (w *Writer) WriteU32(v uint32, n byte) (int, error) {
	return w.WriteBits(uint64(v), n)
}

// WriteU64 writes the low n bits of a 64-bit field.
func (w *Writer) WriteU64(v uint64, n byte) (int, error) {
	return w.WriteBits(v, n)
}

// Raw exposes the underlying icza/bitio.Writer for callers (the residual
// codec, the Huffman table) that write variable-length codes directly.
func (w *Writer) Raw() *bitio.Writer {
	return w.bw
}

// Flush pads the stream to a byte boundary with zero bits. After Flush, no
// further writes are valid.
func (w *Writer) Flush() error {
	if err := w.bw.Close(); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// Bytes returns the bytes written so far. Call Flush first to guarantee the
// final partial byte is included.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reader consumes a bit stream previously produced by Writer.
type Reader struct {
	br *bitio.Reader
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{br: bitio.NewReader(bytes.NewReader(data))}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	bit, err := r.br.ReadBool()
	if err != nil {
		return false, err
	}
	return bit, nil
}

// ReadBits reads n bits, most-significant bit first.
func (r *Reader) ReadBits(n byte) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := r.br.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// ReadU32 reads an n-bit field into a uint32.
func (r *Reader) ReadU32(n byte) (uint32, error) {
	v, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// ReadU64 reads an n-bit field into a uint64.
func (r *Reader) ReadU64(n byte) (uint64, error) {
	return r.ReadBits(n)
}

// Raw exposes the underlying icza/bitio.Reader for the residual codec and
// the Huffman table.
func (r *Reader) Raw() *bitio.Reader {
	return r.br
}
