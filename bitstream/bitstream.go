// Package bitstream provides wrappers for io.Writer and io.Reader to allow
// bit-granularity access to the stream, following the LSB pattern, where
// least-significant bits are written/read first.
//
// A writer or reader wraps one underlying byte stream for its lifetime and
// touches it lazily, one byte at a time. Mixing reads and writes over the
// same underlying stream is the caller's responsibility.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)
