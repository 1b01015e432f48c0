/*

Growth definition and implementation.

*/

package bitbuf

import "fmt"

const (
	// DefaultInitialSize is the size of the first buffer allocated by the
	// default Writer growth strategy.
	DefaultInitialSize = 0x10000

	// DefaultChunkSize is a reasonable chunk size for Chunked.
	DefaultChunkSize = 0x10000
)

// Growth supplies a Writer with more storage.
//
// It receives the current storage, or nil if the writer has none yet, and
// returns a new, larger slice holding the old contents at its start.
// The returned slice must not alias buf.
type Growth func(buf []byte) ([]byte, error)

// Doubling returns a Growth that starts with initialSize bytes and then
// doubles the storage on every call. Empty storage grows to 1 byte.
func Doubling(initialSize int) Growth {
	return func(buf []byte) ([]byte, error) {
		if initialSize < 0 {
			return nil, fmt.Errorf("bitbuf: invalid initial size %d", initialSize)
		}
		if buf == nil {
			return make([]byte, initialSize), nil
		}
		return grown(buf, max(2*len(buf), 1)), nil
	}
}

// Chunked returns a Growth that starts with a single chunk of chunkSize
// bytes and appends one more chunk on every call.
func Chunked(chunkSize int) Growth {
	return func(buf []byte) ([]byte, error) {
		if chunkSize < 1 {
			return nil, fmt.Errorf("bitbuf: invalid chunk size %d", chunkSize)
		}
		if buf == nil {
			return make([]byte, chunkSize), nil
		}
		return grown(buf, len(buf)+chunkSize), nil
	}
}

// NoGrowth is the Growth of fixed size buffers: it always fails.
func NoGrowth(buf []byte) ([]byte, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: buffer is required", ErrGrowthUnsupported)
	}
	return nil, ErrGrowthUnsupported
}

func grown(buf []byte, size int) []byte {
	nb := make([]byte, size)
	copy(nb, buf)
	return nb
}
