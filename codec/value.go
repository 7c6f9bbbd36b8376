package codec

import (
	"reflect"
)

// WriteValue streams a dynamically-typed value: its 32-bit type tag followed
// by the registered streamer's encoding. Values of class-registered types
// stream as objects; a nil value streams as the reserved nil tag.
func (s *Stream) WriteValue(val any) error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}

	if val == nil {
		return s.WriteUint32(TagNil)
	}

	tag, ok := tagForType(reflect.TypeOf(val))
	if !ok {
		return UnstreamableTypeError{Type: reflect.TypeOf(val).String()}
	}

	if err := s.WriteUint32(tag); err != nil {
		return err
	}

	streamer, ok := typeStreamerFor(tag)
	if !ok {
		return UnknownTypeError{Tag: tag}
	}

	return streamer.Write(s, val)
}

// ReadValue streams a dynamically-typed value in. An unregistered type tag
// is a fatal decode error; no payload bits are consumed for it.
func (s *Stream) ReadValue() (any, error) {
	if s.mode != ModeRead {
		return nil, ErrWriteMode
	}

	tag, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}

	if tag == TagNil {
		return nil, nil
	}

	streamer, ok := typeStreamerFor(tag)
	if !ok {
		return nil, UnknownTypeError{Tag: tag}
	}

	return streamer.Read(s)
}
