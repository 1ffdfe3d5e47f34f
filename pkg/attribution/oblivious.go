package attribution

import (
	"context"
	"fmt"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

// ObliviousTouchpoint is a touchpoint whose fields are secret-shared between
// the two parties of a job. Values are never modified; Select builds a new
// one.
type ObliviousTouchpoint struct {
	isClick sh2pc.Bit
	ts      Timestamp
	id      sh2pc.Integer
}

// NewObliviousTouchpoint assembles a touchpoint from already shared fields.
// Nothing about the values is checked; id must be IntSize bits wide.
func NewObliviousTouchpoint(isClick sh2pc.Bit, ts Timestamp, id sh2pc.Integer) ObliviousTouchpoint {
	if id.Width() != IntSize {
		panic(fmt.Errorf("%w: touchpoint id of %d bits, want %d", sh2pc.ErrWidthMismatch, id.Width(), IntSize))
	}
	return ObliviousTouchpoint{isClick: isClick, ts: ts, id: id}
}

// NewPlaceholderTouchpoint returns the public absent touchpoint: a view with
// ts -1 and InvalidTouchpointID.
func NewPlaceholderTouchpoint() ObliviousTouchpoint {
	return ObliviousTouchpoint{
		isClick: sh2pc.NewPublicBit(false),
		ts:      NewPublicTimestamp(-1),
		id:      sh2pc.NewPublicInteger(IntSize, InvalidTouchpointID),
	}
}

// NewObliviousTouchpointFromBlocks reads one touchpoint from the front of a
// batch buffer of length units, as laid out by ShareData and shared by the
// job. It panics if length is below ShareSize or blocks is shorter than
// length.
func NewObliviousTouchpointFromBlocks(j *sh2pc.Job2P, length int, blocks []sh2pc.Block) ObliviousTouchpoint {
	requireLen(length, ShareSize(), "touchpoint")
	requireLen(len(blocks), length, "touchpoint buffer")
	return ObliviousTouchpoint{
		isClick: sh2pc.NewBitFromBlock(j, span(blocks, fieldIsClick)[0]),
		ts:      NewTimestampFromBlocks(j, span(blocks, fieldTS)),
		id:      sh2pc.NewIntegerFromBlocks(j, IntSize, span(blocks, fieldID)),
	}
}

// ShareData writes tp's plaintext bits into the first ShareSize entries of
// data, in the layout NewObliviousTouchpointFromBlocks reads.
func ShareData(data []bool, tp Touchpoint) {
	requireLen(len(data), ShareSize(), "touchpoint data")
	span(data, fieldIsClick)[0] = tp.IsClick
	TimestampData(span(data, fieldTS), tp.TS)
	sh2pc.IntegerData(span(data, fieldID), IntSize, tp.ID)
}

// Select returns rhs if useRhs is set and tp otherwise. Each field is
// selected separately; which one was taken is not revealed.
func (tp ObliviousTouchpoint) Select(ctx context.Context, useRhs sh2pc.Bit, rhs ObliviousTouchpoint) (ObliviousTouchpoint, error) {
	isClick, err := tp.isClick.Select(ctx, useRhs, rhs.isClick)
	if err != nil {
		return ObliviousTouchpoint{}, err
	}
	ts, err := tp.ts.Select(ctx, useRhs, rhs.ts)
	if err != nil {
		return ObliviousTouchpoint{}, err
	}
	id, err := tp.id.Select(ctx, useRhs, rhs.id)
	if err != nil {
		return ObliviousTouchpoint{}, err
	}
	return ObliviousTouchpoint{isClick: isClick, ts: ts, id: id}, nil
}

// IsValid returns the shared bit ts >= 1.
func (tp ObliviousTouchpoint) IsValid(ctx context.Context) (sh2pc.Bit, error) {
	return tp.ts.GreaterEqual(ctx, NewPublicTimestamp(1))
}

// Less returns the shared bit tp < o under the same policy as
// Touchpoint.Less: timestamps decide between touchpoints of one type,
// otherwise the view comes first.
func (tp ObliviousTouchpoint) Less(ctx context.Context, o ObliviousTouchpoint) (sh2pc.Bit, error) {
	tsLess, err := tp.ts.Less(ctx, o.ts)
	if err != nil {
		return sh2pc.Bit{}, err
	}
	sameType := tp.isClick.Equal(o.isClick)
	return tp.isClick.Not().Select(ctx, sameType, tsLess)
}

// Equal returns the shared bit tp.ID == o.ID.
func (tp ObliviousTouchpoint) Equal(ctx context.Context, o ObliviousTouchpoint) (sh2pc.Bit, error) {
	return tp.id.Equal(ctx, o.id)
}

// Reveal opens every field to party and renders the touchpoint the way
// Touchpoint.String does. It exists for tests and debugging. Parties that do
// not receive the value get the rendering of zero fields.
func (tp ObliviousTouchpoint) Reveal(ctx context.Context, party sh2pc.Party) (string, error) {
	isClick, err := tp.isClick.Reveal(ctx, party)
	if err != nil {
		return "", err
	}
	id, err := tp.id.RevealString(ctx, party)
	if err != nil {
		return "", err
	}
	ts, err := tp.ts.Reveal(ctx, party)
	if err != nil {
		return "", err
	}
	return format(isClick, id, ts), nil
}

// RevealTouchpoint opens tp to party in a single message.
func (tp ObliviousTouchpoint) RevealTouchpoint(ctx context.Context, party sh2pc.Party) (Touchpoint, error) {
	out, err := RevealTouchpoints(ctx, party, []ObliviousTouchpoint{tp})
	if err != nil {
		return Touchpoint{}, err
	}
	return out[0], nil
}

// bits lists tp's bits in batch layout order.
func (tp ObliviousTouchpoint) bits() []sh2pc.Bit {
	out := make([]sh2pc.Bit, ShareSize())
	span(out, fieldIsClick)[0] = tp.isClick
	ts := span(out, fieldTS)
	for i := range ts {
		ts[i] = tp.ts.v.Bit(i)
	}
	id := span(out, fieldID)
	for i := range id {
		id[i] = tp.id.Bit(i)
	}
	return out
}

func touchpointFromBits(bits []bool) Touchpoint {
	return Touchpoint{
		IsClick: span(bits, fieldIsClick)[0],
		TS:      signedFromBits(span(bits, fieldTS)),
		ID:      signedFromBits(span(bits, fieldID)),
	}
}

func signedFromBits(bits []bool) int64 {
	var u uint64
	for i, b := range bits {
		if b {
			u |= 1 << i
		}
	}
	shift := 64 - len(bits)
	return int64(u<<shift) >> shift
}
