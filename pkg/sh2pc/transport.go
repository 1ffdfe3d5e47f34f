package sh2pc

import "context"

// RoleID identifies a party on the transport. Values start at 0.
type RoleID uint32

// Role enumerates the two positions of a Job2P.
type Role uint8

const (
	RoleP1 Role = iota
	RoleP2
)

func (r Role) roleID() RoleID { return RoleID(r) }

func (r Role) valid() bool { return r == RoleP1 || r == RoleP2 }

func (r Role) peer() Role {
	if r == RoleP1 {
		return RoleP2
	}
	return RoleP1
}

func (r Role) String() string {
	switch r {
	case RoleP1:
		return "p1"
	case RoleP2:
		return "p2"
	default:
		return "unknown"
	}
}

// Party names the recipient of a reveal.
type Party uint8

const (
	// PartyPublic opens a value to both parties.
	PartyPublic Party = iota
	// PartyP1 opens a value to RoleP1 only.
	PartyP1
	// PartyP2 opens a value to RoleP2 only.
	PartyP2
)

// PartyOf returns the Party that designates role r alone.
func PartyOf(r Role) Party {
	if r == RoleP1 {
		return PartyP1
	}
	return PartyP2
}

func (p Party) valid() bool { return p <= PartyP2 }

// receives reports whether role r learns a value revealed to p.
func (p Party) receives(r Role) bool {
	return p == PartyPublic || p == PartyOf(r)
}

// Transport carries the engine's messages between the two parties.
//
// Concurrency: implementations MUST be safe for concurrent use by multiple
// goroutines; both parties of an in-process run usually share one network.
//
// Ordering: messages between a pair of roles MUST be delivered in the order
// they were sent. The engine relies on this to match rounds without framing.
//
// ReceiveAll returns exactly one entry per requested role.
type Transport interface {
	Send(ctx context.Context, to RoleID, msg []byte) error
	Receive(ctx context.Context, from RoleID) ([]byte, error)
	ReceiveAll(ctx context.Context, from []RoleID) (map[RoleID][]byte, error)
}
