package mocknet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

// Net is an in-memory network. Every directed link is a FIFO mailbox that
// also records the size of each message sent over it.
type Net struct {
	mu    sync.Mutex
	links map[link]*mailbox
}

// New returns an empty network.
func New() *Net { return &Net{links: make(map[link]*mailbox)} }

type link struct {
	from sh2pc.RoleID
	to   sh2pc.RoleID
}

type mailbox struct {
	mu      sync.Mutex
	pending [][]byte
	sizes   []int
	ready   chan struct{}

	messages atomic.Uint64
	bytes    atomic.Uint64
}

func (n *Net) mailbox(from, to sh2pc.RoleID) *mailbox {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := link{from: from, to: to}
	mb := n.links[key]
	if mb == nil {
		mb = &mailbox{ready: make(chan struct{}, 1)}
		n.links[key] = mb
	}
	return mb
}

func (m *mailbox) put(msg []byte) {
	m.mu.Lock()
	m.pending = append(m.pending, append([]byte(nil), msg...))
	m.sizes = append(m.sizes, len(msg))
	m.mu.Unlock()

	m.messages.Inc()
	m.bytes.Add(uint64(len(msg)))
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox) take(ctx context.Context) ([]byte, error) {
	for {
		m.mu.Lock()
		if len(m.pending) > 0 {
			msg := m.pending[0]
			m.pending[0] = nil
			m.pending = m.pending[1:]
			more := len(m.pending) > 0
			m.mu.Unlock()
			if more {
				select {
				case m.ready <- struct{}{}:
				default:
				}
			}
			return msg, nil
		}
		m.mu.Unlock()

		select {
		case <-m.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// LinkStats summarizes the traffic on one directed link.
type LinkStats struct {
	Messages uint64
	Bytes    uint64
	// Sizes lists every message length in send order.
	Sizes []int
}

// Stats returns the traffic sent from one role to another so far.
func (n *Net) Stats(from, to sh2pc.RoleID) LinkStats {
	mb := n.mailbox(from, to)
	mb.mu.Lock()
	sizes := append([]int(nil), mb.sizes...)
	mb.mu.Unlock()
	return LinkStats{
		Messages: mb.messages.Load(),
		Bytes:    mb.bytes.Load(),
		Sizes:    sizes,
	}
}

// Endpoint is one role's view of the network.
type Endpoint struct {
	net   *Net
	self  sh2pc.RoleID
	peers map[sh2pc.RoleID]struct{}
}

// Endpoint returns an endpoint for self that may talk to peers.
func (n *Net) Endpoint(self sh2pc.RoleID, peers ...sh2pc.RoleID) *Endpoint {
	set := make(map[sh2pc.RoleID]struct{}, len(peers))
	for _, p := range peers {
		if p != self {
			set[p] = struct{}{}
		}
	}
	return &Endpoint{net: n, self: self, peers: set}
}

// Ep2P returns the endpoint of self in a two-party setting.
func (n *Net) Ep2P(self, peer sh2pc.RoleID) *Endpoint {
	return n.Endpoint(self, peer)
}

// Pair returns connected endpoints for RoleP1 and RoleP2.
func (n *Net) Pair() (*Endpoint, *Endpoint) {
	p1 := sh2pc.RoleID(sh2pc.RoleP1)
	p2 := sh2pc.RoleID(sh2pc.RoleP2)
	return n.Ep2P(p1, p2), n.Ep2P(p2, p1)
}

func (e *Endpoint) checkPeer(role sh2pc.RoleID) error {
	if role == e.self {
		return errors.New("mocknet: self as peer")
	}
	if _, ok := e.peers[role]; !ok {
		return fmt.Errorf("mocknet: unknown peer %d", role)
	}
	return nil
}

func (e *Endpoint) Send(ctx context.Context, to sh2pc.RoleID, msg []byte) error {
	if err := e.checkPeer(to); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.net.mailbox(e.self, to).put(msg)
	return nil
}

func (e *Endpoint) Receive(ctx context.Context, from sh2pc.RoleID) ([]byte, error) {
	if err := e.checkPeer(from); err != nil {
		return nil, err
	}
	return e.net.mailbox(from, e.self).take(ctx)
}

func (e *Endpoint) ReceiveAll(ctx context.Context, from []sh2pc.RoleID) (map[sh2pc.RoleID][]byte, error) {
	roles := append([]sh2pc.RoleID(nil), from...)
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	for i, role := range roles {
		if err := e.checkPeer(role); err != nil {
			return nil, err
		}
		if i > 0 && roles[i-1] == role {
			return nil, errors.New("mocknet: duplicate role")
		}
	}

	out := make(map[sh2pc.RoleID][]byte, len(roles))
	for _, role := range roles {
		msg, err := e.net.mailbox(role, e.self).take(ctx)
		if err != nil {
			return nil, err
		}
		out[role] = msg
	}
	return out, nil
}

var _ sh2pc.Transport = (*Endpoint)(nil)
