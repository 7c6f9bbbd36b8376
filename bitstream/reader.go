package bitstream

import (
	"io"
)

// BitReader reads bits from an io.Reader.
type BitReader struct {
	stream    io.Reader
	pending   [1]byte
	alignment uint8
}

// NewReader returns a new instance of BitReader.
func NewReader(r io.Reader) *BitReader {
	br := new(BitReader)
	br.stream = r
	br.alignment = 8
	return br
}

// Read reads the next numBits from the stream, regardless of the alignment,
// following the LSB pattern. The returned slice holds ceil(numBits/8) bytes.
func (br *BitReader) Read(numBits uint) ([]byte, error) {
	size := numBits / 8
	if numBits%8 > 0 {
		size++
	}

	data := make([]byte, size)
	if err := br.ReadRange(data, int(numBits), 0); err != nil {
		return nil, err
	}

	return data, nil
}

// ReadRange reads numBits from the stream into data, starting at bit position
// bitOffset within data, following the LSB pattern. data must hold at least
// ceil((bitOffset+numBits)/8) bytes.
func (br *BitReader) ReadRange(data []byte, numBits, bitOffset int) error {
	// Byte-aligned head, one byte at a time.
	for bitOffset%8 == 0 && numBits >= 8 {
		byt, err := br.ReadByte()
		if err != nil {
			return err
		}
		data[bitOffset/8] = byt
		bitOffset += 8
		numBits -= 8
	}

	for numBits > 0 {
		bit, err := br.ReadBit()
		if err != nil {
			return err
		}
		if bit {
			data[bitOffset/8] |= 1 << (uint(bitOffset) % 8)
		} else {
			data[bitOffset/8] &^= 1 << (uint(bitOffset) % 8)
		}
		bitOffset++
		numBits--
	}

	return nil
}

// ReadUint64BE reads the next numBits from the stream as uint64 in Big-Endian
// byte order, regardless of the alignment, following the LSB pattern.
func (br *BitReader) ReadUint64BE(numBits int) (uint64, error) {
	var val uint64

	for numBits >= 8 {
		byt, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		val = uint64(byt) | (val << 8)
		numBits -= 8
	}

	for numBits > 0 {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}

		val <<= 1
		if bit {
			val |= 1
		}
		numBits--
	}

	return val, nil
}

// ReadByte reads the next single byte from the stream, regardless of the
// alignment. If the byte is split, the LSB pattern is followed in bit-groups.
func (br *BitReader) ReadByte() (byte, error) {
	if br.alignment == 8 {
		// io.EOF reported together with the last byte is masked; the
		// next read reports it on its own.
		n, err := br.stream.Read(br.pending[:])
		if n != 1 {
			br.pending[0] = 0
			return 0, readErr(err)
		}
		return br.pending[0], nil
	}

	// The byte stream is not aligned. Use the current byte LS bits, combined
	// with the next byte LS bits as MS bits.

	current := br.pending[0]
	n, err := br.stream.Read(br.pending[:])
	if n != 1 {
		return 0, readErr(err)
	}

	// Use the next pending byte LS bits to fill MS bits.
	current |= br.pending[0] << (8 - br.alignment)

	// Remove the used LS bits from the next pending byte.
	br.pending[0] >>= br.alignment

	return current, nil
}

// ReadBit reads the next single bit from the stream, LSB first.
func (br *BitReader) ReadBit() (Bit, error) {
	if br.alignment == 8 {
		n, err := br.stream.Read(br.pending[:])
		if n != 1 {
			return Zero, readErr(err)
		}
		br.alignment = 0
	}
	br.alignment++

	// Read LS bit.
	lsb := Bit(br.pending[0]&1 == 1)

	// Remove LS bit.
	br.pending[0] >>= 1

	return lsb, nil
}

// Reset discards any partially consumed byte and the bit cursor, returning
// the reader to its initial state. The underlying stream position is not
// touched.
func (br *BitReader) Reset() {
	br.pending[0] = 0
	br.alignment = 8
}

func readErr(err error) error {
	if err != nil {
		return err
	}
	return io.EOF
}
