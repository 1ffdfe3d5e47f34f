package attribution

import (
	"context"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

// Timestamp is a secret signed timestamp of TimestampSize bits.
type Timestamp struct {
	v sh2pc.Integer
}

// NewPublicTimestamp returns a timestamp known to both parties.
func NewPublicTimestamp(ts int64) Timestamp {
	return Timestamp{v: sh2pc.NewPublicInteger(TimestampSize, ts)}
}

// NewTimestampFromBlocks reads TimestampSize shares from the front of blocks.
func NewTimestampFromBlocks(j *sh2pc.Job2P, blocks []sh2pc.Block) Timestamp {
	return Timestamp{v: sh2pc.NewIntegerFromBlocks(j, TimestampSize, blocks)}
}

// TimestampData writes ts into the first TimestampSize entries of data.
func TimestampData(data []bool, ts int64) {
	sh2pc.IntegerData(data, TimestampSize, ts)
}

// IsPublic reports whether the timestamp is held in the clear.
func (t Timestamp) IsPublic() bool { return t.v.IsPublic() }

// Select returns rhs if useRhs is set and t otherwise.
func (t Timestamp) Select(ctx context.Context, useRhs sh2pc.Bit, rhs Timestamp) (Timestamp, error) {
	v, err := t.v.Select(ctx, useRhs, rhs.v)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{v: v}, nil
}

// Less returns the shared bit t < o.
func (t Timestamp) Less(ctx context.Context, o Timestamp) (sh2pc.Bit, error) {
	return t.v.Less(ctx, o.v)
}

// GreaterEqual returns the shared bit t >= o.
func (t Timestamp) GreaterEqual(ctx context.Context, o Timestamp) (sh2pc.Bit, error) {
	return t.v.GreaterEqual(ctx, o.v)
}

// Reveal opens t to party. Other parties get 0.
func (t Timestamp) Reveal(ctx context.Context, party sh2pc.Party) (int64, error) {
	return t.v.Reveal(ctx, party)
}
