/*

Errors definition and implementation.

*/

package bitbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream is returned by Reader when the source has no more bytes
	// to satisfy a request.
	ErrEndOfStream = errors.New("bitbuf: unexpected end of stream")

	// ErrBufferOverflow is returned by Writer when its growth strategy could not
	// supply more storage. It wraps the strategy's own error, if any.
	ErrBufferOverflow = errors.New("bitbuf: overflow: out of buffer space")

	// ErrGrowthUnsupported is returned by NoGrowth.
	ErrGrowthUnsupported = errors.New("bitbuf: buffer growth not supported")
)

// RangeError reports a bit count (or offset) outside the domain of an operation.
type RangeError struct {
	Op string
	N  int
}

func (err *RangeError) Error() string {
	switch err.Op {
	case "skip":
		return fmt.Sprintf("bitbuf: %s: %d is out of range (0<n)", err.Op, err.N)
	case "copy":
		return fmt.Sprintf("bitbuf: %s: offset %d is out of range", err.Op, err.N)
	}
	return fmt.Sprintf("bitbuf: %s: %d is out of range (0<n<=32)", err.Op, err.N)
}

// UnalignedPeekError is returned when 25..32 bits are requested while the
// reader's register is in a state from which a single fill cannot provide them.
type UnalignedPeekError struct {
	Available int
	Requested int
}

func (err *UnalignedPeekError) Error() string {
	return fmt.Sprintf("bitbuf: unaligned peek: only %d bits available of the requested %d",
		err.Available, err.Requested)
}

// InsufficientSpaceError is returned by Writer.CopyTo when the destination
// cannot hold the written bytes.
type InsufficientSpaceError struct {
	Need int
	Have int
}

func (err *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("bitbuf: not enough space: need %d bytes, destination has %d", err.Need, err.Have)
}
