/*

Reader definition and implementation.

*/

package bitbuf

import "io"

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
)

// Reader reads bit fields of 1 to 32 bits from a byte slice.
//
// Up to 32 bits of the source are buffered ahead in a register. Requests of
// up to 24 bits can always be served from the register (or after one fill).
// Wider requests depend on how the buffered bits fall on byte boundaries,
// see PeekBits.
//
// The source is never modified. A Reader is not safe for concurrent use.
type Reader struct {
	src   []byte
	idx   int    // next byte of src not yet loaded into cache
	cache uint32 // buffered bits, left-justified
	bits  int    // number of valid bits in cache

	// TryError holds the first error occurred in TryXXX() methods.
	TryError error
}

// NewReader returns a new Reader reading from src.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// PeekBits returns the next n bits as the lowest n bits of u, without
// advancing the reader. n must be in 1..32.
//
// A request of 25..32 bits is only served if the register is empty, full, or
// already holds at least (buffered bits mod 8) + 24 bits. Otherwise an
// *UnalignedPeekError is returned and the caller has to consume or align
// first (ReadBits handles this case itself).
func (r *Reader) PeekBits(n int) (u uint32, err error) {
	switch {
	case n < 1 || n > 32:
		return 0, &RangeError{Op: "peek", N: n}
	case n <= 24, r.bits == 0, r.bits == 32:
	case n <= r.bits&7+24:
	default:
		return 0, &UnalignedPeekError{Available: r.bits, Requested: n}
	}

	if r.bits < n {
		if err = r.fill(n); err != nil {
			return 0, err
		}
	}
	return r.cache >> (32 - n), nil
}

// ReadBits reads n bits and returns them as the lowest n bits of u.
// n must be in 1..32.
func (r *Reader) ReadBits(n int) (u uint32, err error) {
	if n < 1 || n > 32 {
		return 0, &RangeError{Op: "read", N: n}
	}

	if n <= 24 || n <= r.bits || r.bits == 0 {
		if u, err = r.PeekBits(n); err != nil {
			return 0, err
		}
		r.consume(n)
		return u, nil
	}

	// Wide read spanning a partially filled register: take what is buffered
	// as the high part, then restart from an empty register for the rest.
	lo := n - r.bits
	if (len(r.src)-r.idx)<<3 < lo {
		return 0, ErrEndOfStream
	}
	hi := r.cache >> (32 - n) &^ (1<<lo - 1)
	r.cache, r.bits = 0, 0

	if u, err = r.ReadBits(lo); err != nil {
		return 0, err
	}
	return hi | u, nil
}

// ReadByte implements io.ByteReader.
// It reads the next 8 bits, which may span a byte boundary.
// It returns io.EOF if no bits are left.
func (r *Reader) ReadByte() (b byte, err error) {
	if r.BitsLeft() == 0 {
		return 0, io.EOF
	}
	u, err := r.ReadBits(8)
	return byte(u), err
}

// Read implements io.Reader.
// Trailing bits that do not make up a whole byte are not returned.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.bits == 0 {
		// Aligned with nothing buffered: copy straight from the source.
		n = copy(p, r.src[r.idx:])
		r.idx += n
	} else {
		for ; n < len(p) && r.BitsLeft() >= 8; n++ {
			if p[n], err = r.ReadByte(); err != nil {
				return
			}
		}
	}

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadBool reads the next bit, and returns true if it is 1.
func (r *Reader) ReadBool() (b bool, err error) {
	u, err := r.ReadBits(1)
	return u == 1, err
}

// SkipBits advances the reader by n bits. n must be positive.
// If fewer than n bits are left, ErrEndOfStream is returned and the
// position is not changed.
func (r *Reader) SkipBits(n int) error {
	if n < 1 {
		return &RangeError{Op: "skip", N: n}
	}
	if n > r.BitsLeft() {
		return ErrEndOfStream
	}

	// Empty the register first
	k := min(r.bits, n)
	r.consume(k)
	n -= k

	// Whole bytes never need to pass through the register
	r.idx += n >> 3
	n &= 7

	if n > 0 {
		if err := r.fill(n); err != nil {
			return err
		}
		r.consume(n)
	}
	return nil
}

// IsAligned tells if the reader is at a byte boundary.
func (r *Reader) IsAligned() bool {
	return r.bits&7 == 0
}

// Align aligns the bit stream to a byte boundary,
// so next read will read/use data from the next byte.
// Returns the number of unread / skipped bits.
func (r *Reader) Align() (skipped int) {
	skipped = r.bits & 7
	r.consume(skipped)
	return
}

// BitPosition returns the number of bits consumed so far.
func (r *Reader) BitPosition() int {
	return r.idx<<3 - r.bits
}

// BitsLeft returns the number of bits not consumed yet.
func (r *Reader) BitsLeft() int {
	return len(r.src)<<3 - r.BitPosition()
}

// TryReadBits tries to read n bits.
//
// If there was a previous TryError, it does nothing. Else it calls ReadBits(),
// returns the data it provides and stores the error in the TryError field.
func (r *Reader) TryReadBits(n int) (u uint32) {
	if r.TryError == nil {
		u, r.TryError = r.ReadBits(n)
	}
	return
}

// TryReadBool tries to read one bit.
//
// If there was a previous TryError, it does nothing. Else it calls ReadBool(),
// returns the data it provides and stores the error in the TryError field.
func (r *Reader) TryReadBool() (b bool) {
	if r.TryError == nil {
		b, r.TryError = r.ReadBool()
	}
	return
}

// TrySkipBits tries to skip n bits.
//
// If there was a previous TryError, it does nothing. Else it calls SkipBits()
// and stores the error in the TryError field.
func (r *Reader) TrySkipBits(n int) {
	if r.TryError == nil {
		r.TryError = r.SkipBits(n)
	}
}

// fill loads whole bytes into the free low end of the register until it holds
// more than 24 bits or the source is exhausted. It fails if the register ends
// up with fewer than need bits.
func (r *Reader) fill(need int) error {
	for r.bits <= 24 && r.idx < len(r.src) {
		r.cache |= uint32(r.src[r.idx]) << (24 - r.bits)
		r.idx++
		r.bits += 8
	}
	if r.bits < need {
		return ErrEndOfStream
	}
	return nil
}

// consume drops n bits from the top of the register. n <= r.bits.
func (r *Reader) consume(n int) {
	r.cache <<= n // a shift by 32 clears the register
	r.bits -= n
}
