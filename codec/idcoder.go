package codec

import (
	"fmt"

	"github.com/edombrower/hifi/shared"
)

// IDCoder streams integer identifiers that conform to the following pattern:
// each id encountered in the stream is either one that has been sent
// (received) before, or is one more than the highest previously encountered
// id (starting at zero). This allows both sides to use the minimum number of
// bits to encode the ids without ever transmitting a width.
//
// The width for any legal id is ceil(log2(highest+2)) bits, recomputed from
// the coder's own history on every operation. In the initial state no id has
// been assigned and the only legal id, zero, takes zero bits.
type IDCoder struct {
	s    *Stream
	last int
}

// NewIDCoder returns an id coder bound to s, with no id assigned yet.
func NewIDCoder(s *Stream) *IDCoder {
	return &IDCoder{s: s, last: -1}
}

// newReservedIDCoder returns an id coder with id 0 pre-assigned on both
// sides. Dictionaries use it to keep their 1-based id space contiguous while
// reserving 0 for the null value.
func newReservedIDCoder(s *Stream) *IDCoder {
	return &IDCoder{s: s, last: 0}
}

// width returns the number of bits needed to distinguish every legal next
// id, i.e. the values [0, last+1].
func (c *IDCoder) width() int {
	return shared.NumBits(uint64(c.last + 1))
}

// Write encodes id using the current minimal width and advances the highest
// assigned id when id is the next unassigned one. Ids outside [0, last+1]
// are a contract violation and are rejected.
func (c *IDCoder) Write(id int) error {
	if id < 0 || id > c.last+1 {
		return fmt.Errorf("%w: id %d, window [0, %d]", ErrIDOutOfRange, id, c.last+1)
	}

	if err := c.s.writeBits(uint64(id), c.width()); err != nil {
		return err
	}

	if id == c.last+1 {
		c.last++
	}

	return nil
}

// Read decodes an id using the current minimal width and performs the same
// advance rule as Write. A decoded id above last+1 means the other end does
// not share this coder's history; the pass must be discarded.
func (c *IDCoder) Read() (int, error) {
	val, err := c.s.readBits(c.width())
	if err != nil {
		return 0, err
	}

	id := int(val)
	if id > c.last+1 {
		return 0, fmt.Errorf("%w: decoded id %d, window [0, %d]", ErrIDOutOfRange, id, c.last+1)
	}

	if id == c.last+1 {
		c.last++
	}

	return id, nil
}
