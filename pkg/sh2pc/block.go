package sh2pc

import (
	"crypto/rand"
	"runtime"
)

// Block is one party's share of one bit; only the low bit is meaningful.
// A []Block holding the shares of many values back to back is the batch wire
// format: values are laid out in order with no padding and no length prefix.
type Block uint8

// BitSize is the number of blocks one Bit occupies.
const BitSize = 1

func blockOf(b bool) Block {
	if b {
		return 1
	}
	return 0
}

// packedLen returns the bytes needed to carry n blocks on the wire.
func packedLen(n int) int {
	return (n + 7) / 8
}

// packBlocks packs blocks eight to a byte, least significant bit first.
func packBlocks(blocks []Block) []byte {
	out := make([]byte, packedLen(len(blocks)))
	for i, b := range blocks {
		out[i/8] |= byte(b&1) << (i % 8)
	}
	return out
}

func unpackBlocks(packed []byte, n int) []Block {
	out := make([]Block, n)
	for i := range out {
		out[i] = Block(packed[i/8]>>(i%8)) & 1
	}
	return out
}

func randomBlocks(n int) ([]Block, error) {
	raw := make([]byte, packedLen(n))
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	out := unpackBlocks(raw, n)
	zeroizeBytes(raw)
	return out, nil
}

// zeroizeBytes overwrites buf and keeps the store alive, per golang/go#33325.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

func zeroizeBlocks(buf []Block) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
