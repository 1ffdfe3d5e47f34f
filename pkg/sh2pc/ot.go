package sh2pc

import (
	"context"
	"crypto/subtle"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/sha3"
)

const compressedPointSize = 33

// transferBits runs n single-bit Chou-Orlandi oblivious transfers in each
// direction at once. As sender this party offers offers[i]; as receiver it
// picks with choices[i] and returns the chosen bits of the peer's offers.
//
// Three exchanges:
//
//	round 1: sender point S = s*G
//	round 2: receiver points R_i = y_i*G + c_i*S_peer
//	round 3: sender pads e_i,k = m_i,k ^ H(i, s*(R_i - k*S))
//
// The receiver recovers m_i,c as e_i,c ^ H(i, y_i*S_peer). Scalar
// multiplications use the NonConst variants; the scalars are fresh per batch
// and independent of the chosen bits, while selections that depend on a
// choice bit go through crypto/subtle.
func transferBits(ctx context.Context, ex Exchanger, sid SessionID, offers [][2]Block, choices []Block) ([]Block, error) {
	n := len(offers)
	if len(choices) != n {
		mustf(ErrWidthMismatch, "%d offers and %d choices", n, len(choices))
	}
	self := ex.Role()

	// Round 1.
	senderKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	defer senderKey.Zero()
	var S btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&senderKey.Key, &S)
	S.ToAffine()

	peerMsg, err := ex.Exchange(ctx, serializePoint(&S))
	if err != nil {
		return nil, err
	}
	peerS, err := parsePoint(peerMsg)
	if err != nil {
		return nil, err
	}

	// Round 2.
	receiverKeys := make([]*btcec.PrivateKey, n)
	defer func() {
		for _, k := range receiverKeys {
			if k != nil {
				k.Zero()
			}
		}
	}()
	choiceMsg := make([]byte, n*compressedPointSize)
	for i := 0; i < n; i++ {
		y, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, err
		}
		receiverKeys[i] = y

		var Y, YS btcec.JacobianPoint
		btcec.ScalarBaseMultNonConst(&y.Key, &Y)
		btcec.AddNonConst(&Y, &peerS, &YS)
		Y.ToAffine()
		YS.ToAffine()

		dst := choiceMsg[i*compressedPointSize : (i+1)*compressedPointSize]
		copy(dst, serializePoint(&Y))
		subtle.ConstantTimeCopy(int(choices[i]&1), dst, serializePoint(&YS))
	}
	peerChoices, err := ex.Exchange(ctx, choiceMsg)
	if err != nil {
		return nil, err
	}
	if len(peerChoices) != n*compressedPointSize {
		return nil, protocolErrorf("%d bytes of OT choices for %d transfers", len(peerChoices), n)
	}

	// Round 3.
	negS := S
	negS.Y.Negate(1)
	negS.Y.Normalize()
	pads := make([]Block, 2*n)
	for i := 0; i < n; i++ {
		R, err := parsePoint(peerChoices[i*compressedPointSize : (i+1)*compressedPointSize])
		if err != nil {
			return nil, err
		}
		var RminusS, k0, k1 btcec.JacobianPoint
		btcec.AddNonConst(&R, &negS, &RminusS)
		btcec.ScalarMultNonConst(&senderKey.Key, &R, &k0)
		btcec.ScalarMultNonConst(&senderKey.Key, &RminusS, &k1)
		pads[2*i] = offers[i][0] ^ otPad(sid, self, i, &k0)
		pads[2*i+1] = offers[i][1] ^ otPad(sid, self, i, &k1)
	}
	peerPads, err := ex.Exchange(ctx, packBlocks(pads))
	if err != nil {
		return nil, err
	}
	if len(peerPads) != packedLen(2*n) {
		return nil, protocolErrorf("%d bytes of OT pads for %d transfers", len(peerPads), n)
	}
	encrypted := unpackBlocks(peerPads, 2*n)

	out := make([]Block, n)
	for i := 0; i < n; i++ {
		var k btcec.JacobianPoint
		btcec.ScalarMultNonConst(&receiverKeys[i].Key, &peerS, &k)
		c := choices[i] & 1
		e0, e1 := encrypted[2*i], encrypted[2*i+1]
		chosen := e0 ^ (c & (e0 ^ e1))
		out[i] = chosen ^ otPad(sid, self.peer(), i, &k)
	}
	if j, ok := ex.(*Job2P); ok {
		j.metrics.addOT(2 * n)
	}
	return out, nil
}

// otPad hashes a shared point into one pad bit, domain-separated by session,
// sending role and transfer index.
func otPad(sid SessionID, sender Role, i int, p *btcec.JacobianPoint) Block {
	p.ToAffine()
	h := sha3.New256()
	h.Write(sid)
	h.Write([]byte{byte(sender)})
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(i)))
	h.Write(serializePoint(p))
	return Block(h.Sum(nil)[0]) & 1
}

func serializePoint(p *btcec.JacobianPoint) []byte {
	return btcec.NewPublicKey(&p.X, &p.Y).SerializeCompressed()
}

func parsePoint(b []byte) (btcec.JacobianPoint, error) {
	var p btcec.JacobianPoint
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return p, protocolErrorf("OT point: %v", err)
	}
	pk.AsJacobian(&p)
	return p, nil
}
