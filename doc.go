/*

Package bitbuf provides a bit-level Reader and Writer over byte slices.

Reader extracts unsigned fields of 1 to 32 bits from a byte slice, and Writer
packs unsigned fields of 1 to 32 bits into a byte slice that grows on demand.
They are the primitives container and codec parsers (video bitstreams,
compressed formats, network headers) are built on when fields are not
aligned to bytes.

Bit order

The highest-bits-first order is used. So for example if the input provides the bytes 0x8f and 0x55:

    HEXA    8    f     5    5
    BINARY  1000 1111  0101 0101
            aaaa bbbc  ccdd dddd

Then ReadBits will return the following values:

    r := NewReader([]byte{0x8f, 0x55})
    a, err := r.ReadBits(4) //   1000 = 0x08
    b, err := r.ReadBits(3) //    111 = 0x07
    c, err := r.ReadBits(3) //    101 = 0x05
    d, err := r.ReadBits(6) // 010101 = 0x15

Writing the above values would result in the same sequence of bytes:

    w := NewWriter()
    w.WriteBits(0x08, 4).WriteBits(0x07, 3).WriteBits(0x05, 3).WriteBits(0x15, 6)
    err := w.Err()
    // w.Bytes() will hold the bytes: 0x8f and 0x55

Reading wide fields

Reader buffers up to 32 bits ahead. Up to 24 bits can be peeked at any
position. PeekBits of 25..32 bits may fail with an *UnalignedPeekError
depending on how the buffered bits fall on byte boundaries; ReadBits
always succeeds as long as the source has enough bits.

Byte view

Reader implements io.Reader and io.ByteReader, and Writer implements io.Writer
and io.ByteWriter. Bytes are read and written at the current bit position,
which does not have to be at a byte boundary.

Storage growth

Writer obtains storage from a Growth strategy: Doubling (the default),
Chunked, or NoGrowth for fixed buffers passed with WithBuffer.

*/
package bitbuf
