package bitstream_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edombrower/hifi/bitstream"
	"github.com/edombrower/hifi/shared"
)

const (
	Zero = bitstream.Zero
	One  = bitstream.One
)

var (
	NewWriter = bitstream.NewWriter
	NewReader = bitstream.NewReader
	NumBits   = shared.NumBits
)

func TestUint64BE(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	r := NewReader(buf)
	from := uint64(1)
	to := uint64(1 << 12)

	// Write.
	for i := from; i < to; i++ {
		err := w.WriteUint64BE(i, NumBits(i))
		req.NoError(err)
		err = w.WriteUint64BE(i, 64)
		req.NoError(err)
	}
	err := w.Flush(Zero)
	req.NoError(err)

	// Read.
	for i := from; i < to; i++ {
		num, err := r.ReadUint64BE(NumBits(i))
		req.NoError(err)
		req.Equal(i, num)
		num, err = r.ReadUint64BE(64)
		req.NoError(err)
		req.Equal(i, num)
	}
}

func TestUint64BE_Mixed(t *testing.T) {
	req := require.New(t)

	from := uint64(1)
	to := uint64(1 << 12)

	for i := from; i < to; i++ {
		buf := bytes.NewBuffer(nil)
		w := NewWriter(buf)
		r := NewReader(buf)

		// Write 3 arbitrary bits.
		req.NoError(w.WriteBit(One))
		req.NoError(w.WriteBit(Zero))
		req.NoError(w.WriteBit(One))

		// Write i.
		numBits := NumBits(i)
		req.NoError(w.WriteUint64BE(i, numBits))

		// Write the 3 LS bits of 0xFF.
		req.NoError(w.Write([]byte{0xFF}, 3))

		// Write i again.
		req.NoError(w.WriteUint64BE(i, numBits))

		req.NoError(w.Flush(Zero))

		// Read.

		bit, err := r.ReadBit()
		req.NoError(err)
		req.Equal(One, bit)
		bit, err = r.ReadBit()
		req.NoError(err)
		req.Equal(Zero, bit)
		bit, err = r.ReadBit()
		req.NoError(err)
		req.Equal(One, bit)

		num, err := r.ReadUint64BE(numBits)
		req.NoError(err)
		req.Equal(i, num)

		data, err := r.Read(3)
		req.NoError(err)
		req.Len(data, 1)
		req.Equal(uint8(0x07), data[0])

		num, err = r.ReadUint64BE(numBits)
		req.NoError(err)
		req.Equal(i, num)
	}
}

func TestRange(t *testing.T) {
	req := require.New(t)

	// 1100 1111 0101 0101, LSB-first.
	src := []byte{0xCF, 0x55}

	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)

	// Write bits 3..12 of src.
	req.NoError(w.WriteRange(src, 10, 3))
	req.NoError(w.Flush(Zero))

	r := NewReader(buf)
	dst := make([]byte, 2)
	req.NoError(r.ReadRange(dst, 10, 3))

	// The 10 bits starting at offset 3 must match; the rest of dst is zero.
	for k := 3; k < 13; k++ {
		want := src[k/8] >> (uint(k) % 8) & 1
		got := dst[k/8] >> (uint(k) % 8) & 1
		req.Equal(want, got, "bit %d", k)
	}
}

func TestWriteDoesNotMutate(t *testing.T) {
	req := require.New(t)

	data := []byte{0xAB, 0xCD}
	orig := append([]byte(nil), data...)

	w := NewWriter(bytes.NewBuffer(nil))
	req.NoError(w.Write(data, 13))
	req.Equal(orig, data)
}

func TestString(t *testing.T) {
	req := require.New(t)

	s := "a string"
	br := NewReader(strings.NewReader(s))
	buf := bytes.NewBuffer(nil)
	bw := NewWriter(buf)

	for {
		bit, err := br.ReadBit()
		if err == io.EOF {
			break
		}
		req.NoError(err)
		req.NoError(bw.WriteBit(bit))
	}

	req.Equal(s, buf.String())
}

func TestReset(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)

	// Leave 3 bits pending, then discard them.
	req.NoError(w.WriteBit(One))
	req.NoError(w.WriteBit(One))
	req.NoError(w.WriteBit(One))
	w.Reset()

	req.NoError(w.WriteUint64BE(0x5A, 8))
	req.NoError(w.Flush(Zero))
	req.Equal([]byte{0x5A}, buf.Bytes())

	r := NewReader(bytes.NewReader([]byte{0xFF, 0x5A}))
	_, err := r.ReadBit()
	req.NoError(err)
	r.Reset()

	num, err := r.ReadUint64BE(8)
	req.NoError(err)
	req.Equal(uint64(0x5A), num)
}

func TestEOF(t *testing.T) {
	req := require.New(t)

	_, err := NewReader(bytes.NewReader(nil)).ReadBit()
	req.Equal(io.EOF, err)
	_, err = NewReader(bytes.NewReader(nil)).ReadByte()
	req.Equal(io.EOF, err)

	br := NewReader(strings.NewReader("abc"))

	for _, want := range []byte("abc") {
		b, err := br.ReadByte()
		req.NoError(err)
		req.Equal(want, b)
	}

	b, err := br.ReadByte()
	req.Equal(io.EOF, err)
	req.Equal(byte(0), b)

	// Unaligned exhaustion propagates as well.
	br = NewReader(strings.NewReader("a"))
	_, err = br.ReadBit()
	req.NoError(err)
	_, err = br.ReadByte()
	req.Equal(io.EOF, err)
}
