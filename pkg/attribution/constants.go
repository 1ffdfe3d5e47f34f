package attribution

import "github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"

const (
	// InvalidTouchpointID marks the absence of a touchpoint.
	InvalidTouchpointID int64 = -1

	// IntSize is the width of every shared touchpoint ID.
	IntSize = 64

	// TimestampSize is the width of a shared timestamp.
	TimestampSize = 64

	// BitSize is the number of share units of one shared flag.
	BitSize = sh2pc.BitSize
)
