package codec

// ValueWriter encodes a full value onto the stream, independently of any
// dictionary coding.
type ValueWriter[T any] func(*Stream, T) error

// ValueReader decodes a full value from the stream, independently of any
// dictionary coding.
type ValueReader[T any] func(*Stream) (T, error)

// RepeatedValueStreamer provides a means to stream repeated values
// efficiently. The value is first streamed along with a unique id. When
// subsequently streamed, only the id is sent.
//
// Ids come from two disjoint populations: persistent ids (1..P), assigned
// out-of-band via AddPersistent and stable across sessions, and transient
// offsets, assigned lazily the first time a value is streamed and encoded
// as P+offset. Id 0 is reserved for the null value.
//
// Encoder and decoder dictionaries stay in lock-step as long as both sides
// perform the same persistent assignments before streaming: the Nth distinct
// value written corresponds exactly to the Nth unseen id read.
type RepeatedValueStreamer[T comparable] struct {
	s          *Stream
	ids        *IDCoder
	writeValue ValueWriter[T]
	readValue  ValueReader[T]

	lastPersistentID    int
	lastTransientOffset int
	persistentIDs       map[T]int
	transientOffsets    map[T]int
	values              map[int]T
}

// NewRepeatedValueStreamer returns a dictionary bound to s that encodes full
// values with write and decodes them with read.
func NewRepeatedValueStreamer[T comparable](s *Stream, write ValueWriter[T], read ValueReader[T]) *RepeatedValueStreamer[T] {
	return &RepeatedValueStreamer[T]{
		s:                s,
		ids:              newReservedIDCoder(s),
		writeValue:       write,
		readValue:        read,
		persistentIDs:    make(map[T]int),
		transientOffsets: make(map[T]int),
		values:           make(map[int]T),
	}
}

// AddPersistent assigns the next persistent id (starting at 1) to value and
// returns it. Persistent assignments must be mirrored on both sides, in the
// same order, before any streaming takes place; no bits are emitted.
func (r *RepeatedValueStreamer[T]) AddPersistent(value T) int {
	if id, ok := r.persistentIDs[value]; ok {
		return id
	}

	r.lastPersistentID++
	id := r.lastPersistentID
	r.persistentIDs[value] = id
	r.values[id] = value
	r.ids.last = r.lastPersistentID

	return id
}

// Write streams value. A value with a persistent id or an already-assigned
// transient offset costs only its id; otherwise the next transient offset is
// assigned and the id is followed by the full value encoding, the only
// point at which the value's bits traverse the wire.
func (r *RepeatedValueStreamer[T]) Write(value T) error {
	if id, ok := r.persistentIDs[value]; ok {
		return r.ids.Write(id)
	}

	if offset, ok := r.transientOffsets[value]; ok {
		return r.ids.Write(r.lastPersistentID + offset)
	}

	if max := r.s.maxTransient; max > 0 && r.lastTransientOffset >= max {
		return ErrDictionaryFull
	}

	r.lastTransientOffset++
	offset := r.lastTransientOffset
	r.transientOffsets[value] = offset

	if err := r.ids.Write(r.lastPersistentID + offset); err != nil {
		return err
	}

	return r.writeValue(r.s, value)
}

// WriteNull streams the reserved null id, with no value bits.
func (r *RepeatedValueStreamer[T]) WriteNull() error {
	return r.ids.Write(0)
}

// Read streams a value in. The reserved null id yields the zero value. An id
// seen before in this pass (or assigned persistently) resolves from the
// cache; an unseen id is followed by the full value encoding, which is
// cached under that id.
func (r *RepeatedValueStreamer[T]) Read() (T, error) {
	id, err := r.ids.Read()
	if err != nil {
		var zero T
		return zero, err
	}

	if id == 0 {
		var zero T
		return zero, nil
	}

	if value, ok := r.values[id]; ok {
		return value, nil
	}

	value, err := r.readValue(r.s)
	if err != nil {
		var zero T
		return zero, err
	}
	r.values[id] = value

	return value, nil
}

// GetAndResetTransientOffsets atomically returns and clears the
// transient-offset table, resetting the offset counter to zero. The
// persistent table is untouched. Called once per write session to harvest
// the newly-introduced associations for out-of-band negotiation.
func (r *RepeatedValueStreamer[T]) GetAndResetTransientOffsets() map[T]int {
	offsets := r.transientOffsets
	r.transientOffsets = make(map[T]int)
	r.lastTransientOffset = 0
	return offsets
}

// reset returns the dictionary to its initial transient state for a new
// pass, keeping persistent assignments.
func (r *RepeatedValueStreamer[T]) reset() {
	r.transientOffsets = make(map[T]int)
	r.lastTransientOffset = 0

	r.values = make(map[int]T, len(r.persistentIDs))
	for value, id := range r.persistentIDs {
		r.values[id] = value
	}

	r.ids.last = r.lastPersistentID
}
