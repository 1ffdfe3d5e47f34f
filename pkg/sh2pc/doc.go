// Package sh2pc implements a semi-honest two-party secure computation engine
// over XOR-shared bits.
//
// Every secret value is split between the two parties of a Job2P: party P1
// holds one share, party P2 the other, and the plaintext is the XOR of both.
// Neither share alone says anything about the value. Public values are held
// in the clear by both parties and mix freely with secret ones.
//
// # Values
//
//   - Bit: a single shared bit with Xor, Not, And, Select and Reveal.
//   - Integer: a fixed-width two's complement integer (1 to 64 bits, least
//     significant bit first) with Select, Equal, Less, GreaterEqual and
//     Reveal.
//   - Block: one share of one bit. Slices of Block are the batch wire format
//     used to move many secret values at once.
//
// # Gates
//
// XOR and NOT are local. AND of two secret bits consumes a Beaver triple and
// one message exchange; AND with a public operand is local. All AND gates in
// a batch (for example every bit of an Integer.Select) share a single
// exchange. Triples come from a TripleSource; the default OTTripleSource
// derives them from batched Chou-Orlandi oblivious transfer on secp256k1.
//
// # Obliviousness
//
// No operation in this package branches on a share. Loop bounds, message
// counts and message sizes depend only on public structure: integer widths,
// batch lengths and whether an operand is public. The internal/policy tests
// check the branching rule statically.
//
// # Usage
//
//	net := mocknet.New()
//	ep1 := net.Ep2P(sh2pc.RoleID(sh2pc.RoleP1), sh2pc.RoleID(sh2pc.RoleP2))
//	job, err := sh2pc.NewJob2PWithContext(ctx, ep1, sh2pc.RoleP1, [2]string{"publisher", "partner"})
//	if err != nil { ... }
//	defer job.Close()
//
//	blocks, err := job.Share(ctx, sh2pc.RoleP1, bits, len(bits))
//	x := sh2pc.NewIntegerFromBlocks(job, 64, blocks)
//	v, err := x.Reveal(ctx, sh2pc.PartyPublic)
//
// A Job2P is not safe for concurrent use: both parties must issue the same
// sequence of operations so that their messages line up.
package sh2pc
