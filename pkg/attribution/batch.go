package attribution

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

// BatchData writes tps back to back into data, ShareSize entries each.
func BatchData(data []bool, tps []Touchpoint) {
	size := ShareSize()
	requireLen(len(data), len(tps)*size, "batch data")
	for k, tp := range tps {
		ShareData(data[k*size:], tp)
	}
}

// ShareBatch secret-shares n touchpoints owned by owner in one message. The
// owner passes exactly n touchpoints; the other party passes nil.
func ShareBatch(ctx context.Context, j *sh2pc.Job2P, owner sh2pc.Role, tps []Touchpoint, n int) ([]ObliviousTouchpoint, error) {
	var data []bool
	if j.Role() == owner {
		if len(tps) != n {
			panic(fmt.Errorf("%w: batch of %d touchpoints declared as %d", sh2pc.ErrShortBuffer, len(tps), n))
		}
		data = make([]bool, n*ShareSize())
		BatchData(data, tps)
	}
	blocks, err := j.Share(ctx, owner, data, n*ShareSize())
	clear(data)
	if err != nil {
		return nil, err
	}
	return UnpackBatch(j, blocks, n), nil
}

// UnpackBatch reads n touchpoints laid out back to back in blocks.
func UnpackBatch(j *sh2pc.Job2P, blocks []sh2pc.Block, n int) []ObliviousTouchpoint {
	size := ShareSize()
	requireLen(len(blocks), n*size, "batch")
	out := make([]ObliviousTouchpoint, n)
	for k := range out {
		out[k] = NewObliviousTouchpointFromBlocks(j, size, blocks[k*size:(k+1)*size])
	}
	return out
}

// RevealTouchpoints opens all of tps to party in a single message. Parties
// that do not receive the values get zero touchpoints, except for public
// fields.
func RevealTouchpoints(ctx context.Context, party sh2pc.Party, tps []ObliviousTouchpoint) ([]Touchpoint, error) {
	size := ShareSize()
	all := make([]sh2pc.Bit, 0, len(tps)*size)
	for _, tp := range tps {
		all = append(all, tp.bits()...)
	}
	opened, err := sh2pc.RevealBits(ctx, party, all)
	if err != nil {
		return nil, err
	}
	out := make([]Touchpoint, len(tps))
	for k := range out {
		out[k] = touchpointFromBits(opened[k*size : (k+1)*size])
	}
	return out, nil
}

// CompareSwap returns a and b in order: lo is the lesser under Less. Which
// input ended up where is not revealed.
func CompareSwap(ctx context.Context, a, b ObliviousTouchpoint) (lo, hi ObliviousTouchpoint, err error) {
	swap, err := b.Less(ctx, a)
	if err != nil {
		return lo, hi, err
	}
	if lo, err = a.Select(ctx, swap, b); err != nil {
		return lo, hi, err
	}
	if hi, err = b.Select(ctx, swap, a); err != nil {
		return lo, hi, err
	}
	return lo, hi, nil
}

// SortedLen returns the length Sort pads n touchpoints to.
func SortedLen(n int) int {
	if n <= 1 {
		return n
	}
	return 1 << bits.Len(uint(n-1))
}

// Comparators returns the number of compare-swaps Sort performs on n inputs.
func Comparators(n int) int {
	n = SortedLen(n)
	if n <= 1 {
		return 0
	}
	k := bits.Len(uint(n)) - 1
	return n / 2 * k * (k + 1) / 2
}

// SortTriples bounds the AND gates Sort evaluates on n inputs, so both
// parties can Preprocess that many triples beforehand.
func SortTriples(n int) int {
	less := TimestampSize + 1
	sel := BitSize + TimestampSize + IntSize
	return Comparators(n) * (less + 2*sel)
}

// Sort orders tps with a bitonic sorting network. The input is padded with
// placeholders to SortedLen(len(tps)) and the padded slice is returned; the
// sequence of operations depends only on len(tps). Placeholders sort before
// every valid touchpoint, and IsValid tells them apart.
func Sort(ctx context.Context, tps []ObliviousTouchpoint) ([]ObliviousTouchpoint, error) {
	n := SortedLen(len(tps))
	out := make([]ObliviousTouchpoint, n)
	copy(out, tps)
	for i := len(tps); i < n; i++ {
		out[i] = NewPlaceholderTouchpoint()
	}

	for k := 2; k <= n; k <<= 1 {
		for j := k >> 1; j > 0; j >>= 1 {
			for i := 0; i < n; i++ {
				l := i ^ j
				if l <= i {
					continue
				}
				lo, hi, err := CompareSwap(ctx, out[i], out[l])
				if err != nil {
					return nil, fmt.Errorf("sort: %w", err)
				}
				if i&k == 0 {
					out[i], out[l] = lo, hi
				} else {
					out[i], out[l] = hi, lo
				}
			}
		}
	}
	return out, nil
}
