package mocknet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

var (
	p1 = sh2pc.RoleID(sh2pc.RoleP1)
	p2 = sh2pc.RoleID(sh2pc.RoleP2)
)

func TestPairPingPongKeepsOrder(t *testing.T) {
	net := New()
	ep1, ep2 := net.Pair()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	const rounds = 5
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := ep1.Send(ctx, p2, []byte{byte(i)}); err != nil {
				t.Errorf("p1 send %d: %v", i, err)
				return
			}
			got, err := ep1.Receive(ctx, p2)
			if err != nil {
				t.Errorf("p1 receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i+1) {
				t.Errorf("p1 receive %d got %v", i, got)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			got, err := ep2.Receive(ctx, p1)
			if err != nil {
				t.Errorf("p2 receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i) {
				t.Errorf("p2 receive %d got %v", i, got)
				return
			}
			if err := ep2.Send(ctx, p1, []byte{byte(i + 1)}); err != nil {
				t.Errorf("p2 send %d: %v", i, err)
				return
			}
		}
	}()

	wg.Wait()
}

func TestSendsQueueWithoutReceiver(t *testing.T) {
	net := New()
	ep1, ep2 := net.Pair()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, ep1.Send(ctx, p2, []byte{byte(i)}))
	}
	for i := 0; i < 10; i++ {
		msg, err := ep2.Receive(ctx, p1)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(i)}, msg)
	}
}

func TestSendCopiesPayload(t *testing.T) {
	net := New()
	ep1, ep2 := net.Pair()
	ctx := context.Background()

	msg := []byte("share")
	require.NoError(t, ep1.Send(ctx, p2, msg))
	msg[0] = 'X'

	got, err := ep2.Receive(ctx, p1)
	require.NoError(t, err)
	require.Equal(t, "share", string(got))
}

func TestStatsRecordSizes(t *testing.T) {
	net := New()
	ep1, _ := net.Pair()
	ctx := context.Background()

	require.NoError(t, ep1.Send(ctx, p2, make([]byte, 3)))
	require.NoError(t, ep1.Send(ctx, p2, make([]byte, 33)))

	stats := net.Stats(p1, p2)
	require.Equal(t, uint64(2), stats.Messages)
	require.Equal(t, uint64(36), stats.Bytes)
	require.Equal(t, []int{3, 33}, stats.Sizes)

	require.Zero(t, net.Stats(p2, p1).Messages)
}

func TestReceiveHonoursContext(t *testing.T) {
	net := New()
	ep1, _ := net.Pair()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ep1.Receive(ctx, p2)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiveAll(t *testing.T) {
	net := New()
	eps := []*Endpoint{
		net.Endpoint(0, 1, 2),
		net.Endpoint(1, 0, 2),
		net.Endpoint(2, 0, 1),
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, eps[1].Send(ctx, 0, []byte("from1")))
	require.NoError(t, eps[2].Send(ctx, 0, []byte("from2")))

	batch, err := eps[0].ReceiveAll(ctx, []sh2pc.RoleID{2, 1})
	require.NoError(t, err)
	require.Equal(t, "from1", string(batch[1]))
	require.Equal(t, "from2", string(batch[2]))

	empty, err := eps[0].ReceiveAll(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestEndpointErrors(t *testing.T) {
	net := New()
	ep := net.Ep2P(p1, p2)
	ctx := context.Background()

	require.Error(t, ep.Send(ctx, p1, nil), "send to self")
	_, err := ep.Receive(ctx, p1)
	require.Error(t, err, "receive from self")
	require.Error(t, ep.Send(ctx, 7, nil), "unknown peer")

	mp := net.Endpoint(0, 1, 2)
	_, err = mp.ReceiveAll(ctx, []sh2pc.RoleID{0, 1})
	require.Error(t, err, "self in ReceiveAll")
	_, err = mp.ReceiveAll(ctx, []sh2pc.RoleID{1, 1})
	require.Error(t, err, "duplicate in ReceiveAll")
}
