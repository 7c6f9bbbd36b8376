package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteMode is returned when a read operation is issued on a stream
	// created with NewWriter.
	ErrWriteMode = errors.New("stream is in write mode")

	// ErrReadMode is returned when a write operation is issued on a stream
	// created with NewReader.
	ErrReadMode = errors.New("stream is in read mode")

	// ErrIDOutOfRange is returned when an id falls outside the window
	// [0, highest+1] allowed by the id coder. On decode it implies a
	// non-conforming encoder on the other end; the pass must be discarded.
	ErrIDOutOfRange = errors.New("id out of range")

	// ErrValueTooLarge is returned when a length prefix exceeds the
	// stream's value size limit.
	ErrValueTooLarge = errors.New("value exceeds size limit")

	// ErrDictionaryFull is returned when a write would exceed the stream's
	// transient dictionary capacity.
	ErrDictionaryFull = errors.New("transient dictionary is full")
)

// UnknownTypeError is returned when decoding a dynamically-typed value whose
// type tag has no registered streamer.
type UnknownTypeError struct {
	Tag uint32
}

func (err UnknownTypeError) Error() string {
	return fmt.Sprintf("no streamer registered for type tag %d", err.Tag)
}

// UnknownClassError is returned when decoding an object whose class name has
// no registered descriptor.
type UnknownClassError struct {
	Name string
}

func (err UnknownClassError) Error() string {
	return fmt.Sprintf("no descriptor registered for class %q", err.Name)
}

// UnstreamableTypeError is returned when writing a dynamically-typed value
// whose Go type has neither a registered streamer nor a registered class.
type UnstreamableTypeError struct {
	Type string
}

func (err UnstreamableTypeError) Error() string {
	return fmt.Sprintf("type %v has no registered streamer or class", err.Type)
}
