package shared

import (
	"math/bits"
	"os"
)

const (
	OwnerReadWrite     = os.FileMode(0600)
	OwnerReadWriteExec = os.FileMode(0700)
)

// NumBits returns the number of bits required to represent val,
// which is 0 for val == 0.
func NumBits(val uint64) int {
	return bits.Len64(val)
}
