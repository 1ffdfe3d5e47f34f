package attribution

import (
	"fmt"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

// field enumerates the touchpoint fields in batch order.
type field int

const (
	fieldIsClick field = iota
	fieldTS
	fieldID
	numFields
)

var fieldSizes = [numFields]int{
	fieldIsClick: BitSize,
	fieldTS:      TimestampSize,
	fieldID:      IntSize,
}

// fieldOffset is the sum of the sizes of the fields before f.
func fieldOffset(f field) int {
	off := 0
	for i := field(0); i < f; i++ {
		off += fieldSizes[i]
	}
	return off
}

// span returns the sub-slice holding field f.
func span[T any](buf []T, f field) []T {
	off := fieldOffset(f)
	return buf[off : off+fieldSizes[f]]
}

// ShareSize returns the number of share units one touchpoint occupies in a
// batch buffer: the flag, then the timestamp, then the ID, with no padding.
func ShareSize() int {
	return fieldOffset(numFields)
}

func requireLen(have, want int, what string) {
	if have < want {
		panic(fmt.Errorf("%w: %s needs %d units, have %d", sh2pc.ErrShortBuffer, what, want, have))
	}
}
