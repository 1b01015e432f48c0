package bitbuf

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"
)

func TestReader(t *testing.T) {
	data := []byte{3, 255, 0xcc, 0x1a, 0xbc, 0xde, 0x80, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	r := NewReader(data)

	if i, err := r.ReadBits(8); i != 3 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 3, err)
	}
	if i, err := r.ReadBits(8); i != 255 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 255, err)
	}

	if i, err := r.ReadBits(4); i != 0xc || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xc, err)
	}

	if i, err := r.ReadBits(8); i != 0xc1 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xc1, err)
	}

	if i, err := r.ReadBits(20); i != 0xabcde || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xabcde, err)
	}

	if b, err := r.ReadBool(); !b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, true, err)
	}
	if b, err := r.ReadBool(); b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, false, err)
	}

	if n := r.Align(); n != 6 {
		t.Errorf("Got %v, want %v", n, 6)
	}

	if i, err := r.ReadBits(16); i != 0x0102 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0x0102, err)
	}

	if i, err := r.ReadBits(4); i != 0xf || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xf, err)
	}

	if i, err := r.ReadBits(16); i != 0x808f || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0x808f, err)
	}

	if i, err := r.ReadBits(4); i != 0 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0, err)
	}

	if _, err := r.ReadBits(1); err != ErrEndOfStream {
		t.Errorf("Got error %v, want %v", err, ErrEndOfStream)
	}
}

func TestWriter(t *testing.T) {
	w := NewWriter()

	expected := []byte{0xc1, 0x7f, 0xac, 0x89, 0x24, 0x78, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	w.Write8(0xc1).Off().WriteBits(0x3f, 6).On()
	w.Write8(0xac).WriteBits(0x01, 1).WriteBits(0x1248f, 20)

	if n := w.Align(); n != 3 {
		t.Errorf("Got %x, want %x", n, 3)
	}

	w.Write8(0x01, 0x02).WriteBits(0x0f, 4).Write8(0x80, 0x8f)

	if n := w.Align(); n != 4 {
		t.Errorf("Got %x, want %x", n, 4)
	}
	if n := w.Align(); n != 0 {
		t.Errorf("Got %x, want %x", n, 0)
	}

	if err := w.Err(); err != nil {
		t.Error("Got error:", err)
	}

	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("Got: %x, want: %x", w.Bytes(), expected)
	}
}

func TestReaderBytes(t *testing.T) {
	data := []byte{3, 255, 0xcc, 0x1a, 0xbc, 0xde, 0x80, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	r := NewReader(data)

	if b, err := r.ReadByte(); b != 3 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", b, 3, err)
	}
	if i, err := r.ReadBits(8); i != 255 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 255, err)
	}

	if i, err := r.ReadBits(4); i != 0xc || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xc, err)
	}

	if b, err := r.ReadByte(); b != 0xc1 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", b, 0xc1, err)
	}

	if i, err := r.ReadBits(20); i != 0xabcde || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xabcde, err)
	}

	if n := r.Align(); n != 0 {
		t.Errorf("Got %v, want %v", n, 0)
	}
	if i, err := r.ReadBits(2); i != 2 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 2, err)
	}
	if n := r.Align(); n != 6 {
		t.Errorf("Got %v, want %v", n, 6)
	}

	s := make([]byte, 2)
	if n, err := r.Read(s); n != 2 || err != nil || !bytes.Equal(s, []byte{0x01, 0x02}) {
		t.Errorf("Got %v, want %v, error: %v", s, []byte{0x01, 0x02}, err)
	}

	if i, err := r.ReadBits(4); i != 0xf || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xf, err)
	}

	if n, err := r.Read(s); n != 2 || err != nil || !bytes.Equal(s, []byte{0x80, 0x8f}) {
		t.Errorf("Got %v, want %v, error: %v", s, []byte{0x80, 0x8f}, err)
	}

	// 4 bits left: not a whole byte
	if n, err := r.Read(s); n != 0 || err != io.EOF {
		t.Errorf("Got %v, want %v, error: %v", n, 0, err)
	}
	if _, err := r.ReadByte(); err != ErrEndOfStream {
		t.Errorf("Got error %v, want %v", err, ErrEndOfStream)
	}
	if i, err := r.ReadBits(4); i != 0 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0, err)
	}
	if _, err := r.ReadByte(); err != io.EOF {
		t.Errorf("Got error %v, want %v", err, io.EOF)
	}
}

func TestReaderReadAll(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9a}

	// Aligned with an empty register
	if b, err := io.ReadAll(NewReader(data)); err != nil || !bytes.Equal(b, data) {
		t.Errorf("Got %x, want %x, error: %v", b, data, err)
	}

	// Aligned with buffered bytes
	r := NewReader(data)
	if _, err := r.PeekBits(8); err != nil {
		t.Error("Got error:", err)
	}
	if b, err := io.ReadAll(r); err != nil || !bytes.Equal(b, data) {
		t.Errorf("Got %x, want %x, error: %v", b, data, err)
	}

	// Unaligned: the trailing 4 bits are dropped
	r = NewReader(data)
	r.TrySkipBits(4)
	expected := []byte{0x23, 0x45, 0x67, 0x89}
	if b, err := io.ReadAll(r); err != nil || !bytes.Equal(b, expected) {
		t.Errorf("Got %x, want %x, error: %v", b, expected, err)
	}
	if n := r.BitsLeft(); n != 4 {
		t.Errorf("Got %v, want %v", n, 4)
	}
}

func TestWriterBytes(t *testing.T) {
	w := NewWriter(WithGrowth(Doubling(1)))

	expected := []byte{0xc1, 0x7f, 0xac, 0x89, 0x24, 0x78, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	errs := []error{}
	errs = append(errs, w.WriteByte(0xc1))
	errs = append(errs, w.Off().WriteBits(0x3f, 6).On().Err())
	errs = append(errs, w.WriteByte(0xac))
	errs = append(errs, w.WriteBits(0x01, 1).WriteBits(0x1248f, 20).Err())

	if n := w.Align(); n != 3 {
		t.Errorf("Got %x, want %x", n, 3)
	}

	if n, err := w.Write([]byte{0x01, 0x02}); n != 2 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 2, err)
	}

	errs = append(errs, w.WriteBits(0x0f, 4).Err())

	if n, err := w.Write([]byte{0x80, 0x8f}); n != 2 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 2, err)
	}

	if n := w.Align(); n != 4 {
		t.Errorf("Got %x, want %x", n, 4)
	}

	for _, v := range errs {
		if v != nil {
			t.Error("Got error:", v)
		}
	}

	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("Got: %x, want: %x", w.Bytes(), expected)
	}
}

func TestWriterWriteOverflow(t *testing.T) {
	// Aligned: as many bytes as fit are written
	buf := make([]byte, 2)
	w := NewWriter(WithBuffer(buf))
	if n, err := w.Write([]byte{1, 2, 3}); n != 2 || !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Got %v, want %v, error: %v", n, 2, err)
	}
	if !bytes.Equal(w.Bytes(), []byte{1, 2}) {
		t.Errorf("Got: %x, want: %x", w.Bytes(), []byte{1, 2})
	}
	if n, err := w.Write([]byte{4}); n != 0 || !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Got %v, want %v, error: %v", n, 0, err)
	}

	// Unaligned
	w = NewWriter(WithBuffer(make([]byte, 3)))
	w.Write4(0xf)
	if n, err := w.Write([]byte{1, 2, 3}); n != 2 || !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Got %v, want %v, error: %v", n, 2, err)
	}
	if !bytes.Equal(w.Bytes(), []byte{0xf0, 0x10, 0x20}) {
		t.Errorf("Got: %x, want: %x", w.Bytes(), []byte{0xf0, 0x10, 0x20})
	}
}

func TestChain(t *testing.T) {
	w := NewWriter(WithBuffer([]byte{}), WithGrowth(Doubling(0)))

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	expected := make([]uint32, 100000)
	bits := make([]int, len(expected))

	// Writing (generating)
	for i := range expected {
		expected[i] = rnd.Uint32()
		bits[i] = 1 + rnd.Intn(32)
		expected[i] &= uint32(uint64(1)<<bits[i] - 1)
		w.WriteBits(expected[i], bits[i])
	}
	if err := w.Err(); err != nil {
		t.Error("Got error:", err)
	}

	r := NewReader(w.Bytes())

	// Reading (verifying)
	for i, v := range expected {
		if u, err := r.ReadBits(bits[i]); u != v || err != nil {
			t.Errorf("Idx: %d, Got: %x, want: %x, bits: %d, error: %v", i, u, v, bits[i], err)
		}
	}
}

func TestChainMasksHighBits(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0xffffffff, 3).WriteBits(0xabcd1234, 5)

	if !bytes.Equal(w.Bytes(), []byte{0xf4}) {
		t.Errorf("Got: %x, want: %x", w.Bytes(), []byte{0xf4})
	}

	r := NewReader(w.Bytes())
	if u, err := r.ReadBits(3); u != 7 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", u, 7, err)
	}
	if u, err := r.ReadBits(5); u != 0x14 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", u, 0x14, err)
	}
}
