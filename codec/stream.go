package codec

import (
	"io"
	"math"

	"github.com/edombrower/hifi/bitstream"
	"github.com/edombrower/hifi/shared"
)

// Mode is the direction a stream was opened in. A stream is used for
// reading or writing, but not both.
type Mode uint8

const (
	ModeWrite Mode = iota
	ModeRead
)

// DefaultMaxValueSize bounds the length prefix of byte sequences accepted
// during decoding, so that a corrupt or hostile stream cannot trigger an
// unbounded allocation.
const DefaultMaxValueSize = 1 << 20

// WriteMappings is the snapshot of the values a write session introduced as
// new transient dictionary entries, captured by GetAndResetWriteMappings.
// It is produced for the caller driving schema negotiation; the stream
// clears its own transient state once the snapshot is taken.
type WriteMappings struct {
	ClassNameOffsets map[string]int
	AttributeOffsets map[*Attribute]int
}

// Stream is a stream for bit-aligned data over one underlying byte stream.
//
// A stream embeds two repeated-value dictionaries, for class names and for
// attribute handles, which persist across operations within a pass. Streams
// are not safe for concurrent use.
type Stream struct {
	mode Mode
	bw   *bitstream.BitWriter
	br   *bitstream.BitReader

	classNames *RepeatedValueStreamer[string]
	attributes *RepeatedValueStreamer[*Attribute]

	maxValueSize uint32
	maxTransient int
	logger       shared.Logger
}

// Option customizes a stream at construction time.
type Option func(*Stream)

// WithLogger sets the stream's logger. The default discards all messages.
func WithLogger(logger shared.Logger) Option {
	return func(s *Stream) { s.logger = logger }
}

// WithMaxValueSize bounds the byte length accepted for a single decoded
// value. Zero means DefaultMaxValueSize.
func WithMaxValueSize(n uint32) Option {
	return func(s *Stream) {
		if n > 0 {
			s.maxValueSize = n
		}
	}
}

// WithMaxTransient bounds the number of transient entries each dictionary
// may assign in one session. Zero means unbounded.
func WithMaxTransient(n int) Option {
	return func(s *Stream) { s.maxTransient = n }
}

// WithPersistentClassNames assigns persistent class-name ids, in order.
// Both sides of a connection must apply the same list.
func WithPersistentClassNames(names ...string) Option {
	return func(s *Stream) {
		for _, name := range names {
			s.classNames.AddPersistent(name)
		}
	}
}

// WithPersistentAttributes assigns persistent attribute ids, in order.
// Both sides of a connection must apply the same list.
func WithPersistentAttributes(attributes ...*Attribute) Option {
	return func(s *Stream) {
		for _, attribute := range attributes {
			s.attributes.AddPersistent(attribute)
		}
	}
}

// NewWriter creates a stream that encodes onto w.
func NewWriter(w io.Writer, opts ...Option) *Stream {
	s := &Stream{
		mode: ModeWrite,
		bw:   bitstream.NewWriter(w),
	}
	s.init(opts)
	return s
}

// NewReader creates a stream that decodes from r.
func NewReader(r io.Reader, opts ...Option) *Stream {
	s := &Stream{
		mode: ModeRead,
		br:   bitstream.NewReader(r),
	}
	s.init(opts)
	return s
}

func (s *Stream) init(opts []Option) {
	s.maxValueSize = DefaultMaxValueSize
	s.logger = shared.NoopLogger{}
	s.classNames = NewRepeatedValueStreamer[string](s, writeStringValue, readStringValue)
	s.attributes = NewRepeatedValueStreamer[*Attribute](s, writeAttributeValue, readAttributeValue)

	for _, opt := range opts {
		opt(s)
	}
}

// Mode returns the direction the stream was opened in.
func (s *Stream) Mode() Mode {
	return s.mode
}

// writeBits and readBits are the primitive operations every typed operation
// funnels through; they enforce mode exclusivity.

func (s *Stream) writeBits(val uint64, numBits int) error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}
	return s.bw.WriteUint64BE(val, numBits)
}

func (s *Stream) readBits(numBits int) (uint64, error) {
	if s.mode != ModeRead {
		return 0, ErrWriteMode
	}
	return s.br.ReadUint64BE(numBits)
}

// Flush emits the partial pending byte, padded with zero bits. It must be
// called before the underlying byte stream is considered complete. Writing
// after Flush without an intervening Reset is not supported.
func (s *Stream) Flush() error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}
	return s.bw.Flush(bitstream.Zero)
}

// Reset returns the stream to its initial state for a new pass over the same
// underlying stream: the bit cursor is discarded and the dictionaries drop
// their transient entries. Persistent assignments are kept.
func (s *Stream) Reset() {
	if s.mode == ModeWrite {
		s.bw.Reset()
	} else {
		s.br.Reset()
	}
	s.classNames.reset()
	s.attributes.reset()
}

// GetAndResetWriteMappings returns the set of transient mappings gathered
// during writing and resets them.
func (s *Stream) GetAndResetWriteMappings() WriteMappings {
	return WriteMappings{
		ClassNameOffsets: s.classNames.GetAndResetTransientOffsets(),
		AttributeOffsets: s.attributes.GetAndResetTransientOffsets(),
	}
}

func (s *Stream) WriteBool(val bool) error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}
	return s.bw.WriteBit(bitstream.Bit(val))
}

func (s *Stream) ReadBool() (bool, error) {
	if s.mode != ModeRead {
		return false, ErrWriteMode
	}
	bit, err := s.br.ReadBit()
	return bool(bit), err
}

func (s *Stream) WriteUint32(val uint32) error {
	return s.writeBits(uint64(val), 32)
}

func (s *Stream) ReadUint32() (uint32, error) {
	val, err := s.readBits(32)
	return uint32(val), err
}

func (s *Stream) WriteInt32(val int32) error {
	return s.writeBits(uint64(uint32(val)), 32)
}

func (s *Stream) ReadInt32() (int32, error) {
	val, err := s.readBits(32)
	return int32(uint32(val)), err
}

func (s *Stream) WriteUint64(val uint64) error {
	return s.writeBits(val, 64)
}

func (s *Stream) ReadUint64() (uint64, error) {
	return s.readBits(64)
}

func (s *Stream) WriteFloat64(val float64) error {
	return s.writeBits(math.Float64bits(val), 64)
}

func (s *Stream) ReadFloat64() (float64, error) {
	val, err := s.readBits(64)
	return math.Float64frombits(val), err
}

// WriteBytes writes a 32-bit length prefix followed by the data bits.
func (s *Stream) WriteBytes(data []byte) error {
	if s.mode != ModeWrite {
		return ErrReadMode
	}
	if err := s.WriteUint32(uint32(len(data))); err != nil {
		return err
	}
	return s.bw.Write(data, len(data)*8)
}

// ReadBytes reads a 32-bit length prefix followed by the data bits. A length
// above the stream's value size limit fails without consuming the payload.
func (s *Stream) ReadBytes() ([]byte, error) {
	if s.mode != ModeRead {
		return nil, ErrWriteMode
	}
	length, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length > s.maxValueSize {
		return nil, ErrValueTooLarge
	}
	if length == 0 {
		return nil, nil
	}
	return s.br.Read(uint(length) * 8)
}

func (s *Stream) WriteString(val string) error {
	return s.WriteBytes([]byte(val))
}

func (s *Stream) ReadString() (string, error) {
	data, err := s.ReadBytes()
	return string(data), err
}

// WriteAttribute streams an attribute handle through the attribute
// dictionary. A nil attribute streams as the reserved null id.
func (s *Stream) WriteAttribute(attribute *Attribute) error {
	if attribute == nil {
		return s.attributes.WriteNull()
	}
	return s.attributes.Write(attribute)
}

// ReadAttribute streams an attribute handle in, returning the canonical
// instance for its name.
func (s *Stream) ReadAttribute() (*Attribute, error) {
	return s.attributes.Read()
}

// Full-encoding codecs used by the embedded dictionaries.

func writeStringValue(s *Stream, val string) error {
	return s.WriteString(val)
}

func readStringValue(s *Stream) (string, error) {
	return s.ReadString()
}

func writeAttributeValue(s *Stream, attribute *Attribute) error {
	return s.WriteString(attribute.Name())
}

func readAttributeValue(s *Stream) (*Attribute, error) {
	name, err := s.ReadString()
	if err != nil {
		return nil, err
	}
	return RegisterAttribute(name), nil
}
