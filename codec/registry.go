package codec

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeStreamer encodes and decodes one dynamically-typed value
// representation for a fixed type tag.
type TypeStreamer interface {
	Write(s *Stream, val any) error
	Read(s *Stream) (any, error)
}

type streamerFuncs struct {
	write func(*Stream, any) error
	read  func(*Stream) (any, error)
}

func (f streamerFuncs) Write(s *Stream, val any) error { return f.write(s, val) }
func (f streamerFuncs) Read(s *Stream) (any, error)    { return f.read(s) }

// StreamerFuncs adapts a pair of function values to the TypeStreamer
// interface.
func StreamerFuncs(write func(*Stream, any) error, read func(*Stream) (any, error)) TypeStreamer {
	return streamerFuncs{write: write, read: read}
}

// Built-in type tags. Tag 0 is reserved for the nil value and never carries
// a streamer; tags below 64 are reserved for the library.
const (
	TagNil uint32 = iota
	TagBool
	TagInt32
	TagUint32
	TagUint64
	TagFloat64
	TagString
	TagBytes
	TagObject
)

// The registries are populated by explicit registration calls during
// single-threaded startup, before any stream is constructed, and are
// read-only afterwards. No unregistration exists; registering a tag or name
// twice is a caller error (last write wins).
var (
	typeStreamers = make(map[uint32]TypeStreamer)
	typeTags      = make(map[reflect.Type]uint32)
	classes       = make(map[string]ClassDescriptor)
	classesByType = make(map[reflect.Type]classEntry)
)

type classEntry struct {
	name       string
	descriptor ClassDescriptor
}

// RegisterTypeStreamer registers streamer for the given tag, keyed for
// writing by the runtime type of prototype.
func RegisterTypeStreamer(tag uint32, prototype any, streamer TypeStreamer) {
	typeStreamers[tag] = streamer
	typeTags[reflect.TypeOf(prototype)] = tag
}

// RegisterClass registers a descriptor under its class name so that
// instances of it can be streamed. Instances of the descriptor's concrete
// type stream through the generic value protocol as objects.
func RegisterClass(name string, descriptor ClassDescriptor) {
	t := reflect.TypeOf(descriptor.New())
	classes[name] = descriptor
	classesByType[t] = classEntry{name: name, descriptor: descriptor}
	typeTags[t] = TagObject
}

func typeStreamerFor(tag uint32) (TypeStreamer, bool) {
	streamer, ok := typeStreamers[tag]
	return streamer, ok
}

func classDescriptorFor(name string) (ClassDescriptor, bool) {
	descriptor, ok := classes[name]
	return descriptor, ok
}

func tagForType(t reflect.Type) (uint32, bool) {
	tag, ok := typeTags[t]
	return tag, ok
}

var builtinsOnce sync.Once

// RegisterBuiltinTypes registers the streamers for the built-in tags.
// Intended to be called from process startup code, before any stream is
// constructed; subsequent calls are no-ops.
func RegisterBuiltinTypes() {
	builtinsOnce.Do(registerBuiltinTypes)
}

func registerBuiltinTypes() {
	RegisterTypeStreamer(TagBool, false, StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(bool)
			if !ok {
				return typeMismatch("bool", val)
			}
			return s.WriteBool(v)
		},
		func(s *Stream) (any, error) { return s.ReadBool() },
	))

	RegisterTypeStreamer(TagInt32, int32(0), StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(int32)
			if !ok {
				return typeMismatch("int32", val)
			}
			return s.WriteInt32(v)
		},
		func(s *Stream) (any, error) { return s.ReadInt32() },
	))

	RegisterTypeStreamer(TagUint32, uint32(0), StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(uint32)
			if !ok {
				return typeMismatch("uint32", val)
			}
			return s.WriteUint32(v)
		},
		func(s *Stream) (any, error) { return s.ReadUint32() },
	))

	RegisterTypeStreamer(TagUint64, uint64(0), StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(uint64)
			if !ok {
				return typeMismatch("uint64", val)
			}
			return s.WriteUint64(v)
		},
		func(s *Stream) (any, error) { return s.ReadUint64() },
	))

	RegisterTypeStreamer(TagFloat64, float64(0), StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(float64)
			if !ok {
				return typeMismatch("float64", val)
			}
			return s.WriteFloat64(v)
		},
		func(s *Stream) (any, error) { return s.ReadFloat64() },
	))

	RegisterTypeStreamer(TagString, "", StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.(string)
			if !ok {
				return typeMismatch("string", val)
			}
			return s.WriteString(v)
		},
		func(s *Stream) (any, error) { return s.ReadString() },
	))

	RegisterTypeStreamer(TagBytes, []byte(nil), StreamerFuncs(
		func(s *Stream, val any) error {
			v, ok := val.([]byte)
			if !ok {
				return typeMismatch("[]byte", val)
			}
			return s.WriteBytes(v)
		},
		func(s *Stream) (any, error) { return s.ReadBytes() },
	))

	// TagObject is keyed by class-registered types rather than a prototype;
	// register the streamer only.
	typeStreamers[TagObject] = StreamerFuncs(
		func(s *Stream, val any) error { return s.WriteObject(val) },
		func(s *Stream) (any, error) { return s.ReadObject() },
	)
}

func typeMismatch(want string, val any) error {
	return fmt.Errorf("type streamer: expected %s, got %T", want, val)
}
