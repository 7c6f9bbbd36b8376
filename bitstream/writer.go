package bitstream

import (
	"io"
)

// BitWriter writes bits to an io.Writer.
type BitWriter struct {
	stream    io.Writer
	pending   [1]byte
	alignment uint8
}

// NewWriter returns a new instance of BitWriter.
func NewWriter(w io.Writer) *BitWriter {
	bw := new(BitWriter)
	bw.stream = w
	bw.alignment = 0 // less-significant bit
	return bw
}

// Write writes the first numBits of data to the stream, regardless of the
// alignment. If bytes are to be split (from data due to numBits, or on stream
// due to alignment), the LSB pattern is followed in bit-groups.
func (bw *BitWriter) Write(data []byte, numBits int) error {
	return bw.WriteRange(data, numBits, 0)
}

// WriteRange writes numBits of data to the stream, starting at bit position
// bitOffset within data. Bit k of data is data[k/8]>>(k%8)&1, per the LSB
// pattern.
func (bw *BitWriter) WriteRange(data []byte, numBits, bitOffset int) error {
	// Byte-aligned head, one byte at a time.
	for bitOffset%8 == 0 && numBits >= 8 {
		if err := bw.WriteByte(data[bitOffset/8]); err != nil {
			return err
		}
		bitOffset += 8
		numBits -= 8
	}

	for numBits > 0 {
		bit := data[bitOffset/8]>>(uint(bitOffset)%8)&1 == 1
		if err := bw.WriteBit(Bit(bit)); err != nil {
			return err
		}
		bitOffset++
		numBits--
	}

	return nil
}

// WriteUint64BE writes the numBits LS bits of val, in Big-Endian byte order,
// regardless of the alignment. If bytes are to be split (from val due to
// numBits, or on stream due to alignment), the LSB pattern is followed in
// bit-groups.
func (bw *BitWriter) WriteUint64BE(val uint64, numBits int) error {
	if numBits == 0 {
		return nil
	}

	// Eliminate unnecessary MS bits.
	val <<= 64 - uint(numBits)

	// Write bytes in Big-Endian order.
	for numBits >= 8 {
		if err := bw.WriteByte(byte(val >> 56)); err != nil {
			return err
		}
		val <<= 8
		numBits -= 8
	}

	// Write the remaining bits.
	for numBits > 0 {
		if err := bw.WriteBit(Bit((val >> 63) == 1)); err != nil {
			return err
		}
		val <<= 1
		numBits--
	}

	return nil
}

// WriteByte writes a single byte to the stream, regardless of the alignment.
// If the byte is to be split due to alignment, the LSB pattern is followed in
// bit-groups.
func (bw *BitWriter) WriteByte(b byte) error {
	// Fill the pending byte MS bits with the LS bits of b.
	bw.pending[0] |= b << bw.alignment

	if n, err := bw.stream.Write(bw.pending[:]); n != 1 {
		return writeErr(err)
	}

	// Fill the new pending byte LS bits with the MS bits of b.
	if bw.alignment == 0 {
		bw.pending[0] = 0
	} else {
		bw.pending[0] = b >> (8 - bw.alignment)
	}

	return nil
}

// WriteBit writes a single bit to the stream, LSB first.
func (bw *BitWriter) WriteBit(bit Bit) error {
	if bit {
		bw.pending[0] |= 1 << bw.alignment
	}

	bw.alignment++

	if bw.alignment == 8 {
		if n, err := bw.stream.Write(bw.pending[:]); n != 1 {
			return writeErr(err)
		}
		bw.pending[0] = 0
		bw.alignment = 0
	}

	return nil
}

// Flush flushes the currently pending byte to the stream by filling it with
// bit. Flushing an aligned writer is a no-op.
func (bw *BitWriter) Flush(bit Bit) error {
	for bw.alignment != 0 {
		if err := bw.WriteBit(bit); err != nil {
			return err
		}
	}

	return nil
}

// Reset discards the pending byte and the bit cursor, returning the writer to
// its initial state. The underlying stream position is not touched.
func (bw *BitWriter) Reset() {
	bw.pending[0] = 0
	bw.alignment = 0
}

func writeErr(err error) error {
	if err != nil {
		return err
	}
	return io.ErrShortWrite
}
