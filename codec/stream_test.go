package codec_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edombrower/hifi/codec"
)

func init() {
	codec.RegisterBuiltinTypes()
}

func TestRoundTripPrimitives(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)

	req.NoError(w.WriteBool(true))
	req.NoError(w.WriteBool(false))
	req.NoError(w.WriteUint32(0xDEADBEEF))
	req.NoError(w.WriteInt32(-12345))
	req.NoError(w.WriteUint64(1<<63 | 17))
	req.NoError(w.WriteFloat64(3.25))
	req.NoError(w.WriteBytes([]byte{0x00, 0xFF, 0x7A}))
	req.NoError(w.WriteString("répété"))
	req.NoError(w.Flush())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()))

	b, err := r.ReadBool()
	req.NoError(err)
	req.True(b)
	b, err = r.ReadBool()
	req.NoError(err)
	req.False(b)

	u32, err := r.ReadUint32()
	req.NoError(err)
	req.Equal(uint32(0xDEADBEEF), u32)

	i32, err := r.ReadInt32()
	req.NoError(err)
	req.Equal(int32(-12345), i32)

	u64, err := r.ReadUint64()
	req.NoError(err)
	req.Equal(uint64(1<<63|17), u64)

	f64, err := r.ReadFloat64()
	req.NoError(err)
	req.Equal(3.25, f64)

	data, err := r.ReadBytes()
	req.NoError(err)
	req.Equal([]byte{0x00, 0xFF, 0x7A}, data)

	str, err := r.ReadString()
	req.NoError(err)
	req.Equal("répété", str)
}

func TestRoundTripValues(t *testing.T) {
	req := require.New(t)

	vals := []any{
		true,
		uint32(7),
		"seen once",
		nil,
		int32(-1),
		"seen once", // repeated values round-trip too; no dictionary for plain strings
		float64(0.5),
		[]byte{1, 2, 3},
		uint64(1 << 40),
	}

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)
	for _, val := range vals {
		req.NoError(w.WriteValue(val))
	}
	req.NoError(w.Flush())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()))
	for _, val := range vals {
		got, err := r.ReadValue()
		req.NoError(err)
		req.Equal(val, got)
	}
}

func TestModeExclusivity(t *testing.T) {
	req := require.New(t)

	w := codec.NewWriter(bytes.NewBuffer(nil))
	req.NoError(w.WriteBool(true))

	_, err := w.ReadBool()
	req.ErrorIs(err, codec.ErrWriteMode)
	_, err = w.ReadUint32()
	req.ErrorIs(err, codec.ErrWriteMode)
	_, err = w.ReadBytes()
	req.ErrorIs(err, codec.ErrWriteMode)
	_, err = w.ReadValue()
	req.ErrorIs(err, codec.ErrWriteMode)
	_, err = w.ReadObject()
	req.ErrorIs(err, codec.ErrWriteMode)

	r := codec.NewReader(bytes.NewReader([]byte{0xFF}))
	req.ErrorIs(r.WriteBool(true), codec.ErrReadMode)
	req.ErrorIs(r.WriteUint32(1), codec.ErrReadMode)
	req.ErrorIs(r.WriteBytes([]byte{1}), codec.ErrReadMode)
	req.ErrorIs(r.WriteValue("x"), codec.ErrReadMode)
	req.ErrorIs(r.WriteObject(nil), codec.ErrReadMode)
	req.ErrorIs(r.Flush(), codec.ErrReadMode)
}

func TestUnknownTypeTag(t *testing.T) {
	req := require.New(t)

	// Craft a value whose tag was never registered.
	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)
	req.NoError(w.WriteUint32(0xBEE5))
	req.NoError(w.Flush())

	before := buf.Len()
	r := codec.NewReader(buf)
	_, err := r.ReadValue()
	req.ErrorAs(err, &codec.UnknownTypeError{})
	req.ErrorContains(err, "48869")

	// Only the tag itself was consumed.
	req.Equal(before-4, buf.Len())
}

func TestUnstreamableType(t *testing.T) {
	req := require.New(t)

	w := codec.NewWriter(bytes.NewBuffer(nil))
	err := w.WriteValue(struct{ X chan int }{})
	req.ErrorAs(err, &codec.UnstreamableTypeError{})
}

func TestValueSizeLimit(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)
	req.NoError(w.WriteBytes(make([]byte, 64)))
	req.NoError(w.Flush())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()), codec.WithMaxValueSize(16))
	_, err := r.ReadBytes()
	req.ErrorIs(err, codec.ErrValueTooLarge)
}

func TestTransportExhaustion(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)
	req.NoError(w.WriteUint32(1000)) // length prefix of a payload that never follows
	req.NoError(w.Flush())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.ReadBytes()
	req.ErrorIs(err, io.EOF)
}

func TestAttributeRoundTrip(t *testing.T) {
	req := require.New(t)

	density := codec.RegisterAttribute("voxel.density")
	color := codec.RegisterAttribute("voxel.color")

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)

	seq := []*codec.Attribute{density, color, density, nil, color}
	for _, attribute := range seq {
		req.NoError(w.WriteAttribute(attribute))
	}
	req.NoError(w.Flush())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()))
	for _, attribute := range seq {
		got, err := r.ReadAttribute()
		req.NoError(err)
		if attribute == nil {
			req.Nil(got)
			continue
		}
		// Canonical handles: same pointer, not just same name.
		req.Same(attribute, got)
	}
}

func TestWriteMappingsHarvest(t *testing.T) {
	req := require.New(t)

	pressure := codec.RegisterAttribute("voxel.pressure")

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)

	req.NoError(w.WriteAttribute(pressure))
	req.NoError(w.WriteAttribute(pressure))

	mappings := w.GetAndResetWriteMappings()
	req.Equal(map[*codec.Attribute]int{pressure: 1}, mappings.AttributeOffsets)
	req.Empty(mappings.ClassNameOffsets)

	// The stream cleared its own transient state with the snapshot.
	mappings = w.GetAndResetWriteMappings()
	req.Empty(mappings.AttributeOffsets)
	req.Empty(mappings.ClassNameOffsets)
}

func TestStreamReset(t *testing.T) {
	req := require.New(t)

	attr := codec.RegisterAttribute("voxel.mass")

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf)
	req.NoError(w.WriteAttribute(attr))
	req.NoError(w.Flush())
	firstPass := buf.Len()

	// After a reset the dictionaries forget the session; the attribute is
	// sent in full again and both passes decode independently.
	w.Reset()
	req.NoError(w.WriteAttribute(attr))
	req.NoError(w.Flush())
	req.Equal(2*firstPass, buf.Len())

	r := codec.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := r.ReadAttribute()
	req.NoError(err)
	req.Equal("voxel.mass", got.Name())

	r.Reset()
	got, err = r.ReadAttribute()
	req.NoError(err)
	req.Equal("voxel.mass", got.Name())
}

func TestPersistentAttributeOptions(t *testing.T) {
	req := require.New(t)

	spin := codec.RegisterAttribute("voxel.spin")

	buf := bytes.NewBuffer(nil)
	w := codec.NewWriter(buf, codec.WithPersistentAttributes(spin))
	req.NoError(w.WriteAttribute(spin))
	req.NoError(w.Flush())

	// Persistent id only, no value bits: a single byte.
	req.Equal(1, buf.Len())
	req.Empty(w.GetAndResetWriteMappings().AttributeOffsets)

	r := codec.NewReader(bytes.NewReader(buf.Bytes()), codec.WithPersistentAttributes(spin))
	got, err := r.ReadAttribute()
	req.NoError(err)
	req.Equal("voxel.spin", got.Name())
}
