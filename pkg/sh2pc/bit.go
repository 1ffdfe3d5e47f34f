package sh2pc

import (
	"context"
	"fmt"
)

// Bit is a single secret-shared bit, or a public bit when no job is bound.
// The zero value is the public bit false.
type Bit struct {
	job   *Job2P
	share Block
}

// NewPublicBit returns a bit both parties know in the clear.
func NewPublicBit(v bool) Bit {
	return Bit{share: blockOf(v)}
}

// NewBitFromBlock wraps this party's share of a secret bit.
func NewBitFromBlock(j *Job2P, b Block) Bit {
	return Bit{job: j, share: b & 1}
}

// IsPublic reports whether the bit is held in the clear.
func (b Bit) IsPublic() bool { return b.job == nil }

// contrib returns b's contribution to j's XOR sharing: public values are
// carried by P1's share alone.
func (b Bit) contrib(j *Job2P) Block {
	if b.IsPublic() {
		return b.share & j.pubMask()
	}
	return b.share
}

// Xor is local.
func (b Bit) Xor(o Bit) Bit {
	j := jobOf(b, o)
	if j == nil {
		return Bit{share: b.share ^ o.share}
	}
	return Bit{job: j, share: b.contrib(j) ^ o.contrib(j)}
}

// Not is local.
func (b Bit) Not() Bit {
	return b.Xor(NewPublicBit(true))
}

// Equal returns the shared bit b == o. It is local.
func (b Bit) Equal(o Bit) Bit {
	return b.Xor(o).Not()
}

// And returns b AND o, spending one Beaver triple when both are secret.
func (b Bit) And(ctx context.Context, o Bit) (Bit, error) {
	out, err := And(ctx, []Bit{b}, []Bit{o})
	if err != nil {
		return Bit{}, err
	}
	return out[0], nil
}

// Select returns rhs if useRhs is set and b otherwise, without revealing
// useRhs: b ^ (useRhs & (b ^ rhs)).
func (b Bit) Select(ctx context.Context, useRhs Bit, rhs Bit) (Bit, error) {
	m, err := b.Xor(rhs).And(ctx, useRhs)
	if err != nil {
		return Bit{}, err
	}
	return b.Xor(m), nil
}

// Reveal opens b to party. Parties that do not receive the value get false.
// Public bits need no interaction and are returned to everyone.
func (b Bit) Reveal(ctx context.Context, party Party) (bool, error) {
	out, err := RevealBits(ctx, party, []Bit{b})
	if err != nil {
		return false, err
	}
	return out[0], nil
}

func jobOf(bits ...Bit) *Job2P {
	for _, b := range bits {
		if !b.IsPublic() {
			return b.job
		}
	}
	return nil
}

// And evaluates xs[i] AND ys[i] for every i. All secret-secret pairs share a
// single round: each party opens its masked operands x^a and y^b, then
// combines them with its triple shares. Pairs with a public operand are
// local and consume no triple.
func And(ctx context.Context, xs, ys []Bit) ([]Bit, error) {
	if len(xs) != len(ys) {
		mustf(ErrWidthMismatch, "AND of %d and %d bits", len(xs), len(ys))
	}

	out := make([]Bit, len(xs))
	var (
		j   *Job2P
		idx []int
	)
	for i := range xs {
		x, y := xs[i], ys[i]
		switch {
		case x.IsPublic() && y.IsPublic():
			out[i] = Bit{share: x.share & y.share}
		case x.IsPublic():
			out[i] = Bit{job: y.job, share: y.share & x.share}
		case y.IsPublic():
			out[i] = Bit{job: x.job, share: x.share & y.share}
		default:
			j = x.job
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out, nil
	}
	if err := j.usable(); err != nil {
		return nil, opError("And", err)
	}

	n := len(idx)
	triples, err := j.takeTriples(ctx, n)
	if err != nil {
		return nil, opError("And", err)
	}

	masked := make([]Block, 2*n)
	for k, i := range idx {
		masked[k] = xs[i].share ^ triples[k].A
		masked[n+k] = ys[i].share ^ triples[k].B
	}
	peer, err := j.Exchange(ctx, packBlocks(masked))
	if err != nil {
		return nil, opError("And", err)
	}
	if len(peer) != packedLen(2*n) {
		return nil, opError("And", protocolErrorf("masked operands of %d bytes for %d gates", len(peer), n))
	}
	peerMasked := unpackBlocks(peer, 2*n)

	pub := j.pubMask()
	for k, i := range idx {
		d := masked[k] ^ peerMasked[k]
		e := masked[n+k] ^ peerMasked[n+k]
		t := triples[k]
		z := t.C ^ (d & t.B) ^ (e & t.A) ^ (d & e & pub)
		out[i] = Bit{job: j, share: z}
		triples[k] = Triple{}
	}
	j.metrics.addAnd(n)
	return out, nil
}

// RevealBits opens bits to party in one message. Parties that do not receive
// the values get false for every secret bit; public bits are returned as is.
func RevealBits(ctx context.Context, party Party, bits []Bit) ([]bool, error) {
	if !party.valid() {
		return nil, opError("Reveal", fmt.Errorf("%w: party %d", ErrBadPeers, party))
	}

	out := make([]bool, len(bits))
	var (
		j      *Job2P
		idx    []int
		shares []Block
	)
	for i, b := range bits {
		if b.IsPublic() {
			out[i] = b.share == 1
			continue
		}
		j = b.job
		idx = append(idx, i)
		shares = append(shares, b.share)
	}
	if len(idx) == 0 {
		return out, nil
	}
	if err := j.usable(); err != nil {
		return nil, opError("Reveal", err)
	}

	n := len(idx)
	packed := packBlocks(shares)
	var peer []byte
	var err error
	switch {
	case party == PartyPublic:
		peer, err = j.Exchange(ctx, packed)
	case party.receives(j.self):
		peer, err = j.receive(ctx)
	default:
		if err := j.send(ctx, packed); err != nil {
			return nil, opError("Reveal", err)
		}
		return out, nil
	}
	if err != nil {
		return nil, opError("Reveal", err)
	}
	if len(peer) != packedLen(n) {
		return nil, opError("Reveal", protocolErrorf("%d bytes for %d shares", len(peer), n))
	}

	peerShares := unpackBlocks(peer, n)
	for k, i := range idx {
		out[i] = shares[k]^peerShares[k] == 1
	}
	j.metrics.addOpened(n)
	return out, nil
}
