package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDCoderWidthGrowth(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	s := NewWriter(buf)
	c := NewIDCoder(s)

	// First-seen ids 0..4 must cost exactly 0,1,2,2,3 bits.
	expected := []int{0, 1, 2, 2, 3}
	for id, width := range expected {
		req.Equal(width, c.width(), "id %d", id)
		req.NoError(c.Write(id))
	}

	// 0+1+2+2+3 = 8 bits, exactly one byte after flush.
	req.NoError(s.Flush())
	req.Equal(1, buf.Len())

	// The reader recomputes the same widths from its own history.
	r := NewReader(bytes.NewReader(buf.Bytes()))
	d := NewIDCoder(r)
	for id, width := range expected {
		req.Equal(width, d.width(), "id %d", id)
		got, err := d.Read()
		req.NoError(err)
		req.Equal(id, got)
	}
}

func TestIDCoderReuse(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	s := NewWriter(buf)
	c := NewIDCoder(s)

	seq := []int{0, 1, 0, 2, 1, 3, 0, 3}
	for _, id := range seq {
		req.NoError(c.Write(id))
	}
	req.NoError(s.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	d := NewIDCoder(r)
	for _, id := range seq {
		got, err := d.Read()
		req.NoError(err)
		req.Equal(id, got)
	}
}

func TestIDCoderOutOfRange(t *testing.T) {
	req := require.New(t)

	s := NewWriter(bytes.NewBuffer(nil))
	c := NewIDCoder(s)

	// Only 0 is legal in the initial state.
	req.ErrorIs(c.Write(1), ErrIDOutOfRange)
	req.ErrorIs(c.Write(-1), ErrIDOutOfRange)
	req.NoError(c.Write(0))
	req.ErrorIs(c.Write(2), ErrIDOutOfRange)
}

func TestIDCoderDecodedOutOfRange(t *testing.T) {
	req := require.New(t)

	// Craft a stream whose widths allow a value above the legal window:
	// with highest=1 the width is 2 bits, admitting the illegal id 3.
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	c := NewIDCoder(w)
	req.NoError(c.Write(0))
	req.NoError(c.Write(1))
	req.NoError(w.writeBits(3, 2))
	req.NoError(w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	d := NewIDCoder(r)
	_, err := d.Read()
	req.NoError(err)
	_, err = d.Read()
	req.NoError(err)
	_, err = d.Read()
	req.ErrorIs(err, ErrIDOutOfRange)
}
