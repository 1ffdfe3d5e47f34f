package sh2pc

import (
	"context"
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Triple is one party's share of a Beaver triple: random bits a, b and
// c = a AND b, each XOR-shared between the parties.
type Triple struct {
	A, B, C Block
}

// TripleSource produces Beaver triples. Both parties call Triples with the
// same session and n; implementations exchange whatever messages they need
// through ex.
type TripleSource interface {
	Triples(ctx context.Context, ex Exchanger, sid SessionID, n int) ([]Triple, error)
}

// Exchanger is the messaging surface a TripleSource may use. Job2P
// implements it.
type Exchanger interface {
	Role() Role
	Exchange(ctx context.Context, msg []byte) ([]byte, error)
}

// OTTripleSource generates triples with two batches of 1-out-of-2 oblivious
// transfer, one in each direction.
//
// Each party draws a, b and a mask r. For the cross term, the party acting
// as sender offers (r, r ^ b); the peer acting as receiver chooses with its a
// and learns r ^ (a_peer AND b). With both directions run at once:
//
//	c = (a AND b) ^ r ^ (r_peer ^ (a AND b_peer))
//
// and the XOR of both parties' c equals (a ^ a_peer) AND (b ^ b_peer).
type OTTripleSource struct{}

func (OTTripleSource) Triples(ctx context.Context, ex Exchanger, sid SessionID, n int) ([]Triple, error) {
	if n == 0 {
		return nil, nil
	}
	own, err := randomBlocks(3 * n)
	if err != nil {
		return nil, err
	}
	a, b, r := own[:n], own[n:2*n], own[2*n:]

	offers := make([][2]Block, n)
	for i := range offers {
		offers[i] = [2]Block{r[i], r[i] ^ b[i]}
	}
	received, err := transferBits(ctx, ex, sid, offers, a)
	if err != nil {
		return nil, err
	}

	out := make([]Triple, n)
	for i := range out {
		out[i] = Triple{
			A: a[i],
			B: b[i],
			C: (a[i] & b[i]) ^ r[i] ^ received[i],
		}
	}
	zeroizeBlocks(own)
	zeroizeBlocks(received)
	return out, nil
}

// DealerTripleSource hands out triples derived from a seed both parties
// know. Either party can reconstruct every triple, so it offers no privacy;
// it exists for deterministic tests and benchmarks of the gate logic. Each
// party needs its own instance; calls advance a shared counter in lockstep.
type DealerTripleSource struct {
	Seed  []byte
	calls uint64
}

func (d *DealerTripleSource) Triples(_ context.Context, ex Exchanger, sid SessionID, n int) ([]Triple, error) {
	shake := sha3.NewShake128()
	shake.Write(d.Seed)
	shake.Write(sid)
	shake.Write(binary.BigEndian.AppendUint64(nil, d.calls))
	d.calls++

	raw := make([]byte, n)
	if _, err := shake.Read(raw); err != nil {
		return nil, err
	}
	p1 := ex.Role() == RoleP1
	out := make([]Triple, n)
	for i, v := range raw {
		a0, b0, c0 := Block(v)&1, Block(v>>1)&1, Block(v>>2)&1
		a1, b1 := Block(v>>3)&1, Block(v>>4)&1
		c1 := ((a0 ^ a1) & (b0 ^ b1)) ^ c0
		if p1 {
			out[i] = Triple{A: a0, B: b0, C: c0}
		} else {
			out[i] = Triple{A: a1, B: b1, C: c1}
		}
	}
	return out, nil
}
