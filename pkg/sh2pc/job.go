package sh2pc

import (
	"context"
	"crypto/rand"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/coinbase/mpc-touchpoint-go/pkg/logging"
)

const sessionNonceSize = 16

// Job2P binds one party's side of a two-party computation: the transport,
// this party's role, the triple pool and the session identifier.
type Job2P struct {
	t         Transport
	self      Role
	names     [2]string
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	log     logging.Logger
	metrics *Metrics
	source  TripleSource

	sid  SessionID
	pool []Triple
}

// Option configures a Job2P.
type Option func(*Job2P)

// WithLogger sets the job logger. The default is logging.New(nil).
func WithLogger(l logging.Logger) Option {
	return func(j *Job2P) {
		if l != nil {
			j.log = l
		}
	}
}

// WithMetrics records gate and transfer counts into m.
func WithMetrics(m *Metrics) Option {
	return func(j *Job2P) { j.metrics = m }
}

// WithTripleSource replaces the default OTTripleSource. Both parties must use
// compatible sources.
func WithTripleSource(s TripleSource) Option {
	return func(j *Job2P) {
		if s != nil {
			j.source = s
		}
	}
}

// NewJob2P constructs a 2-party job using the provided transport, role, and
// party names. Names must be stable, unique identifiers for each participant.
// This variant uses a background context; see NewJob2PWithContext to provide
// a cancellable context for transport operations.
func NewJob2P(t Transport, self Role, names [2]string, opts ...Option) (*Job2P, error) {
	return NewJob2PWithContext(context.Background(), t, self, names, opts...)
}

// NewJob2PWithContext constructs a 2-party job with a parent context. Close
// cancels a child of ctx, which unblocks pending receives.
func NewJob2PWithContext(ctx context.Context, t Transport, self Role, names [2]string, opts ...Option) (*Job2P, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	if !self.valid() {
		return nil, fmt.Errorf("%w: role %d is not valid", ErrBadPeers, self)
	}
	if names[0] == "" || names[1] == "" {
		return nil, fmt.Errorf("%w: party names must not be empty", ErrBadPeers)
	}
	if names[0] == names[1] {
		return nil, fmt.Errorf("%w: party names must be unique (got %q)", ErrBadPeers, names[0])
	}

	jobCtx, cancel := context.WithCancel(ctx)
	j := &Job2P{
		t:      t,
		self:   self,
		names:  names,
		ctx:    jobCtx,
		cancel: cancel,
		log:    logging.New(nil),
		source: OTTripleSource{},
	}
	for _, opt := range opts {
		opt(j)
	}
	j.log = j.log.With("party", names[self], "role", self.String())
	runtime.SetFinalizer(j, func(j *Job2P) { _ = j.Close() })
	return j, nil
}

// Close cancels pending transport operations and drops preprocessed triples.
// It is idempotent.
func (j *Job2P) Close() error {
	if j == nil {
		return nil
	}
	j.closeOnce.Do(func() {
		runtime.SetFinalizer(j, nil)
		j.cancel()
		for i := range j.pool {
			j.pool[i] = Triple{}
		}
		j.pool = nil
	})
	return nil
}

// Role returns this party's role.
func (j *Job2P) Role() Role { return j.self }

// Names returns the party names in role order.
func (j *Job2P) Names() [2]string { return j.names }

// Logger returns the job logger, already tagged with the party.
func (j *Job2P) Logger() logging.Logger { return j.log }

// pubMask is 1 on P1 and 0 on P2: public constants enter the XOR sharing
// through P1's share only.
func (j *Job2P) pubMask() Block {
	return Block(1 - j.self)
}

func (j *Job2P) usable() error {
	if j == nil {
		return ErrNoJob
	}
	if j.ctx.Err() != nil {
		return ErrJobClosed
	}
	return nil
}

// opCtx derives a context that is done when either ctx or the job is.
func (j *Job2P) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(j.ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (j *Job2P) send(ctx context.Context, msg []byte) error {
	if err := j.usable(); err != nil {
		return err
	}
	ctx, done := j.opCtx(ctx)
	defer done()
	return j.t.Send(ctx, j.self.peer().roleID(), msg)
}

func (j *Job2P) receive(ctx context.Context) ([]byte, error) {
	if err := j.usable(); err != nil {
		return nil, err
	}
	ctx, done := j.opCtx(ctx)
	defer done()
	return j.t.Receive(ctx, j.self.peer().roleID())
}

// Exchange sends msg to the peer and returns the peer's message for the same
// round. Both parties call it symmetrically.
func (j *Job2P) Exchange(ctx context.Context, msg []byte) ([]byte, error) {
	if err := j.send(ctx, msg); err != nil {
		return nil, err
	}
	return j.receive(ctx)
}

// SessionID returns the identifier both parties agreed on, running the
// agreement on first use. Each party contributes a fresh nonce; the ID is the
// hash of both in role order.
func (j *Job2P) SessionID(ctx context.Context) (SessionID, error) {
	if !j.sid.IsEmpty() {
		return j.sid.Clone(), nil
	}
	nonce := make([]byte, sessionNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, opError("SessionID", err)
	}
	peerNonce, err := j.Exchange(ctx, nonce)
	if err != nil {
		return nil, opError("SessionID", err)
	}
	if len(peerNonce) != sessionNonceSize {
		return nil, opError("SessionID", protocolErrorf("nonce of %d bytes", len(peerNonce)))
	}
	first, second := nonce, peerNonce
	if j.self == RoleP2 {
		first, second = peerNonce, nonce
	}
	h := sha3.New256()
	h.Write([]byte(j.names[0]))
	h.Write([]byte{0})
	h.Write([]byte(j.names[1]))
	h.Write([]byte{0})
	h.Write(first)
	h.Write(second)
	j.sid = SessionID(h.Sum(nil))
	return j.sid.Clone(), nil
}

// Preprocess generates n Beaver triples ahead of time so later AND batches
// run without oblivious transfer rounds. Both parties must call it with the
// same n at the same point in the computation.
func (j *Job2P) Preprocess(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	triples, err := j.generateTriples(ctx, n)
	if err != nil {
		return opError("Preprocess", err)
	}
	j.pool = append(j.pool, triples...)
	j.log.Debug(ctx, "preprocessed triples", "count", n, "pool", len(j.pool))
	return nil
}

// Pooled returns the number of preprocessed triples left.
func (j *Job2P) Pooled() int { return len(j.pool) }

func (j *Job2P) generateTriples(ctx context.Context, n int) ([]Triple, error) {
	if err := j.usable(); err != nil {
		return nil, err
	}
	sid, err := j.SessionID(ctx)
	if err != nil {
		return nil, err
	}
	triples, err := j.source.Triples(ctx, j, sid, n)
	if err != nil {
		return nil, err
	}
	if len(triples) != n {
		return nil, protocolErrorf("triple source returned %d of %d triples", len(triples), n)
	}
	j.metrics.addTriples(n)
	return triples, nil
}

// takeTriples pops n triples from the pool, generating the shortfall.
func (j *Job2P) takeTriples(ctx context.Context, n int) ([]Triple, error) {
	if len(j.pool) >= n {
		out := j.pool[:n:n]
		j.pool = j.pool[n:]
		return out, nil
	}
	missing := n - len(j.pool)
	fresh, err := j.generateTriples(ctx, missing)
	if err != nil {
		return nil, err
	}
	out := append(j.pool, fresh...)
	j.pool = nil
	return out, nil
}

// Share secret-shares data owned by owner. The owner passes its n plaintext
// bits; the other party passes nil and the same n. The owner masks its bits
// with fresh randomness and sends the mask, so the result on each side is a
// slice of n blocks laid out exactly like data.
func (j *Job2P) Share(ctx context.Context, owner Role, data []bool, n int) ([]Block, error) {
	if err := j.usable(); err != nil {
		return nil, opError("Share", err)
	}
	if !owner.valid() {
		return nil, opError("Share", fmt.Errorf("%w: owner role %d", ErrBadPeers, owner))
	}
	if n < 0 {
		return nil, opError("Share", fmt.Errorf("negative length %d", n))
	}

	if owner != j.self {
		packed, err := j.receive(ctx)
		if err != nil {
			return nil, opError("Share", err)
		}
		if len(packed) != packedLen(n) {
			return nil, opError("Share", protocolErrorf("mask of %d bytes for %d bits", len(packed), n))
		}
		j.log.Debug(ctx, "received input shares", "owner", owner.String(), "bits", n, logging.Redacted("blocks"))
		return unpackBlocks(packed, n), nil
	}

	if len(data) < n {
		mustf(ErrShortBuffer, "share %d bits from %d", n, len(data))
	}
	mask, err := randomBlocks(n)
	if err != nil {
		return nil, opError("Share", err)
	}
	packed := packBlocks(mask)
	if err := j.send(ctx, packed); err != nil {
		return nil, opError("Share", err)
	}
	zeroizeBytes(packed)

	out := make([]Block, n)
	for i := range out {
		out[i] = blockOf(data[i]) ^ mask[i]
	}
	zeroizeBlocks(mask)
	j.log.Debug(ctx, "shared input", "bits", n, logging.Redacted("blocks"))
	return out, nil
}

// SessionID identifies an agreed session.
type SessionID []byte

// Clone returns a copy, or nil for an empty ID.
func (s SessionID) Clone() SessionID {
	if len(s) == 0 {
		return nil
	}
	clone := make(SessionID, len(s))
	copy(clone, s)
	return clone
}

// IsEmpty reports whether no session has been agreed yet.
func (s SessionID) IsEmpty() bool {
	return len(s) == 0
}
