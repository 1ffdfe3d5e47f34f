package sh2pc

import (
	"context"
	"fmt"
	"strconv"
)

// MaxIntegerWidth bounds Integer widths so values reveal into an int64.
const MaxIntegerWidth = 64

// Integer is a fixed-width two's complement integer stored as bits, least
// significant first. Widths are public; every operation's cost depends only
// on them.
type Integer struct {
	bits []Bit
}

// IntegerSize returns the number of blocks an Integer of width occupies.
func IntegerSize(width int) int {
	checkWidth(width)
	return width
}

func checkWidth(width int) {
	if width < 1 || width > MaxIntegerWidth {
		mustf(ErrInvalidWidth, "width %d", width)
	}
}

// NewPublicInteger returns v truncated to width bits, known to both parties.
func NewPublicInteger(width int, v int64) Integer {
	checkWidth(width)
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = Bit{share: Block(uint64(v)>>i) & 1}
	}
	return Integer{bits: bits}
}

// NewIntegerFromBlocks reads width shares from the front of blocks.
// blocks must hold at least width entries.
func NewIntegerFromBlocks(j *Job2P, width int, blocks []Block) Integer {
	checkWidth(width)
	if len(blocks) < width {
		mustf(ErrShortBuffer, "integer of width %d from %d blocks", width, len(blocks))
	}
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = NewBitFromBlock(j, blocks[i])
	}
	return Integer{bits: bits}
}

// IntegerData writes the width low bits of v into data, least significant
// first: the plaintext layout NewIntegerFromBlocks reads after sharing.
func IntegerData(data []bool, width int, v int64) {
	checkWidth(width)
	if len(data) < width {
		mustf(ErrShortBuffer, "integer of width %d into %d bits", width, len(data))
	}
	for i := 0; i < width; i++ {
		data[i] = (uint64(v)>>i)&1 == 1
	}
}

// Width returns the number of bits.
func (x Integer) Width() int { return len(x.bits) }

// Bit returns bit i, counting from the least significant.
func (x Integer) Bit(i int) Bit { return x.bits[i] }

// IsPublic reports whether every bit is held in the clear.
func (x Integer) IsPublic() bool {
	return jobOf(x.bits...) == nil
}

func (x Integer) sameWidth(op string, y Integer) error {
	if len(x.bits) != len(y.bits) {
		return opError(op, fmt.Errorf("%w: %d and %d bits", ErrWidthMismatch, len(x.bits), len(y.bits)))
	}
	return nil
}

// Select returns rhs if useRhs is set and x otherwise. It costs one AND
// round of Width gates.
func (x Integer) Select(ctx context.Context, useRhs Bit, rhs Integer) (Integer, error) {
	if err := x.sameWidth("Select", rhs); err != nil {
		return Integer{}, err
	}
	diff := make([]Bit, len(x.bits))
	cond := make([]Bit, len(x.bits))
	for i := range x.bits {
		diff[i] = x.bits[i].Xor(rhs.bits[i])
		cond[i] = useRhs
	}
	masked, err := And(ctx, diff, cond)
	if err != nil {
		return Integer{}, err
	}
	out := make([]Bit, len(x.bits))
	for i := range out {
		out[i] = x.bits[i].Xor(masked[i])
	}
	return Integer{bits: out}, nil
}

// Equal returns the shared bit x == y, reducing the per-bit equalities with
// a tree of AND rounds.
func (x Integer) Equal(ctx context.Context, y Integer) (Bit, error) {
	if err := x.sameWidth("Equal", y); err != nil {
		return Bit{}, err
	}
	level := make([]Bit, len(x.bits))
	for i := range level {
		level[i] = x.bits[i].Equal(y.bits[i])
	}
	for len(level) > 1 {
		half := len(level) / 2
		reduced, err := And(ctx, level[:half], level[half:2*half])
		if err != nil {
			return Bit{}, err
		}
		if len(level)%2 == 1 {
			reduced = append(reduced, level[len(level)-1])
		}
		level = reduced
	}
	return level[0], nil
}

// Less returns the shared bit x < y for signed operands.
//
// It computes the sign of x - y = x + ^y + 1 on width+1 bits (both operands
// sign-extended) with a ripple carry: c' = c ^ ((a ^ c) & (b ^ c)), one AND
// per bit. The carry chain is sequential, so this takes Width rounds unless
// operands are public.
func (x Integer) Less(ctx context.Context, y Integer) (Bit, error) {
	if err := x.sameWidth("Less", y); err != nil {
		return Bit{}, err
	}
	w := len(x.bits)
	carry := NewPublicBit(true)
	for i := 0; i < w; i++ {
		a := x.bits[i]
		nb := y.bits[i].Not()
		t, err := a.Xor(carry).And(ctx, nb.Xor(carry))
		if err != nil {
			return Bit{}, err
		}
		carry = carry.Xor(t)
	}
	// Bit w of the extended sum: sign(x) ^ ^sign(y) ^ carry.
	return x.bits[w-1].Xor(y.bits[w-1].Not()).Xor(carry), nil
}

// GreaterEqual returns the shared bit x >= y for signed operands.
func (x Integer) GreaterEqual(ctx context.Context, y Integer) (Bit, error) {
	lt, err := x.Less(ctx, y)
	if err != nil {
		return Bit{}, err
	}
	return lt.Not(), nil
}

// Reveal opens x to party as a sign-extended int64. Parties that do not
// receive the value get 0 for its secret bits.
func (x Integer) Reveal(ctx context.Context, party Party) (int64, error) {
	bits, err := RevealBits(ctx, party, x.bits)
	if err != nil {
		return 0, err
	}
	var u uint64
	for i, b := range bits {
		u |= uint64(blockOf(b)) << i
	}
	shift := 64 - len(bits)
	return int64(u<<shift) >> shift, nil
}

// RevealString opens x to party and renders it in decimal.
func (x Integer) RevealString(ctx context.Context, party Party) (string, error) {
	v, err := x.Reveal(ctx, party)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}
