/*

Writer definition and implementation.

*/

package bitbuf

import (
	"fmt"
	"io"
)

// Writer packs bit fields of 1 to 32 bits into a byte slice it owns.
//
// Methods that write return the Writer so calls can be chained.
// Errors are sticky: after the first failure every write is a no-op and
// the error is reported by Err(). Call Reset to start over.
//
// Writes are read-modify-write operations on the storage: only the bits
// covered by a field are changed, bits passed over by Skip or Align keep
// their previous value.
type Writer struct {
	buf  []byte // nil until storage is needed, unless given by WithBuffer
	idx  int    // byte being assembled
	bit  int    // bits already written into buf[idx], 0..7
	grow Growth
	err  error
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ByteWriter = (*Writer)(nil)
)

// WithBuffer makes the Writer use buf as its storage. Unless a growth
// strategy is also given, the writer will not grow beyond len(buf).
func WithBuffer(buf []byte) WriterOption {
	return func(w *Writer) {
		if buf == nil {
			buf = []byte{}
		}
		w.buf = buf
	}
}

// WithGrowth sets the growth strategy of the Writer.
func WithGrowth(g Growth) WriterOption {
	return func(w *Writer) {
		w.grow = g
	}
}

// NewWriter returns a new Writer.
//
// By default the storage is allocated on first write with
// Doubling(DefaultInitialSize). If WithBuffer is given without WithGrowth,
// the writer uses NoGrowth.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	if w.grow == nil {
		if w.buf != nil {
			w.grow = NoGrowth
		} else {
			w.grow = Doubling(DefaultInitialSize)
		}
	}
	return w
}

// WriteBits writes out the n lowest bits of v. n must be in 1..32.
func (w *Writer) WriteBits(v uint32, n int) *Writer {
	if w.err != nil {
		return w
	}
	if n < 1 || n > 32 {
		w.err = &RangeError{Op: "write", N: n}
		return w
	}

	payload := v << (32 - n) // left-justified, a shift by 32 is never needed
	for n > 0 {
		if w.err = w.ensure(w.idx); w.err != nil {
			return w
		}

		free := 8 - w.bit
		k := min(n, free)
		shift := free - k
		mask := byte(1<<k-1) << shift
		chunk := byte(payload>>(32-k)) << shift

		w.buf[w.idx] = w.buf[w.idx]&^mask | chunk

		w.advance(k)
		payload <<= k
		n -= k
	}
	return w
}

// WriteByte implements io.ByteWriter.
func (w *Writer) WriteByte(c byte) error {
	return w.WriteBits(uint32(c), 8).Err()
}

// Write implements io.Writer.
// When the writer is aligned to a byte boundary p is copied as is.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.bit == 0 && len(p) > 0 && w.ensure(w.idx+len(p)-1) == nil {
		n = copy(w.buf[w.idx:], p)
		w.idx += n
		return n, nil
	}

	// Unaligned, or the storage cannot hold all of p
	for ; n < len(p); n++ {
		if err = w.WriteByte(p[n]); err != nil {
			return
		}
	}
	return n, nil
}

// On writes a 1 bit.
func (w *Writer) On() *Writer {
	return w.WriteBits(1, 1)
}

// Off writes a 0 bit.
func (w *Writer) Off() *Writer {
	return w.WriteBits(0, 1)
}

// Write1 writes one bit per value: 1 for true, 0 for false.
func (w *Writer) Write1(vs ...bool) *Writer {
	for _, b := range vs {
		if b {
			w.On()
		} else {
			w.Off()
		}
	}
	return w
}

// Write2 writes each value as a 2-bit field.
func (w *Writer) Write2(vs ...uint32) *Writer { return w.writeN(2, vs) }

// Write3 writes each value as a 3-bit field.
func (w *Writer) Write3(vs ...uint32) *Writer { return w.writeN(3, vs) }

// Write4 writes each value as a 4-bit field.
func (w *Writer) Write4(vs ...uint32) *Writer { return w.writeN(4, vs) }

// Write6 writes each value as a 6-bit field.
func (w *Writer) Write6(vs ...uint32) *Writer { return w.writeN(6, vs) }

// Write8 writes each value as a byte.
func (w *Writer) Write8(vs ...uint32) *Writer { return w.writeN(8, vs) }

// Write16 writes each value as a 16-bit field.
func (w *Writer) Write16(vs ...uint32) *Writer { return w.writeN(16, vs) }

// Write24 writes each value as a 24-bit field.
func (w *Writer) Write24(vs ...uint32) *Writer { return w.writeN(24, vs) }

// Write32 writes each value as a 32-bit field.
func (w *Writer) Write32(vs ...uint32) *Writer { return w.writeN(32, vs) }

func (w *Writer) writeN(n int, vs []uint32) *Writer {
	for _, v := range vs {
		w.WriteBits(v, n)
	}
	return w
}

// Skip advances the writer by n bits without writing them.
// The storage is grown to cover the skipped bytes.
func (w *Writer) Skip(n int) *Writer {
	if w.err != nil {
		return w
	}
	if n < 0 {
		w.err = &RangeError{Op: "skip", N: n}
		return w
	}

	if l := (w.idx<<3 + w.bit + n + 7) >> 3; l > 0 {
		if w.err = w.ensure(l - 1); w.err != nil {
			return w
		}
	}
	w.advance(n)
	return w
}

// IsAligned tells if the writer is at a byte boundary.
func (w *Writer) IsAligned() bool {
	return w.bit == 0
}

// Align aligns the bit stream to a byte boundary,
// so next write will start/go into a new byte.
// Returns the number of skipped (unwritten) bits.
func (w *Writer) Align() (skipped int) {
	if w.err != nil {
		return
	}
	if w.bit > 0 {
		skipped = 8 - w.bit
		w.bit = 0
		w.idx++
	}
	return
}

// ByteLen returns the number of bytes touched so far, including a partially
// written last byte.
func (w *Writer) ByteLen() int {
	if w.bit == 0 {
		return w.idx
	}
	return w.idx + 1
}

// Cap returns the size of the current storage.
func (w *Writer) Cap() int {
	return len(w.buf)
}

// Bytes returns the written bytes. The slice aliases the writer's storage
// and is only valid until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.ByteLen()]
}

// CopyTo copies the written bytes into dst starting at offset.
func (w *Writer) CopyTo(dst []byte, offset int) error {
	if offset < 0 || offset > len(dst) {
		return &RangeError{Op: "copy", N: offset}
	}
	n := w.ByteLen()
	if have := len(dst) - offset; have < n {
		return &InsufficientSpaceError{Need: n, Have: have}
	}
	copy(dst[offset:], w.buf[:n])
	return nil
}

// Err returns the first error encountered by the writer.
func (w *Writer) Err() error {
	return w.err
}

// Reset zeroes the storage and moves the writer back to the start,
// clearing any error. The storage and growth strategy are kept.
func (w *Writer) Reset() {
	clear(w.buf)
	w.idx, w.bit, w.err = 0, 0, nil
}

func (w *Writer) advance(n int) {
	w.bit += n
	w.idx += w.bit >> 3
	w.bit &= 7
}

// ensure grows the storage until index i is addressable.
func (w *Writer) ensure(i int) error {
	for i >= len(w.buf) {
		nb, err := w.grow(w.buf)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBufferOverflow, err)
		}
		if len(nb) <= len(w.buf) && (w.buf != nil || nb == nil) {
			return fmt.Errorf("%w: storage did not grow beyond %d bytes", ErrBufferOverflow, len(w.buf))
		}
		w.buf = nb
	}
	return nil
}
