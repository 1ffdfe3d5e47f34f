package attribution_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/mpc-touchpoint-go/pkg/attribution"
	"github.com/coinbase/mpc-touchpoint-go/pkg/logging"
	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc/mocknet"
)

var partyNames = [2]string{"publisher", "partner"}

func newPair(t *testing.T, opts ...sh2pc.Option) (*mocknet.Net, [2]*sh2pc.Job2P) {
	t.Helper()
	net := mocknet.New()
	ep1, ep2 := net.Pair()
	eps := [2]sh2pc.Transport{ep1, ep2}

	var jobs [2]*sh2pc.Job2P
	for i, role := range []sh2pc.Role{sh2pc.RoleP1, sh2pc.RoleP2} {
		jobOpts := append([]sh2pc.Option{
			sh2pc.WithLogger(logging.Discard()),
			sh2pc.WithTripleSource(&sh2pc.DealerTripleSource{Seed: []byte("touchpoint-tests")}),
		}, opts...)
		job, err := sh2pc.NewJob2P(eps[i], role, partyNames, jobOpts...)
		require.NoError(t, err)
		t.Cleanup(func() { _ = job.Close() })
		jobs[i] = job
	}
	return net, jobs
}

func run2P[T any](t *testing.T, jobs [2]*sh2pc.Job2P, fn func(ctx context.Context, j *sh2pc.Job2P) (T, error)) [2]T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var (
		wg   sync.WaitGroup
		out  [2]T
		errs [2]error
	)
	wg.Add(2)
	for i := range jobs {
		go func() {
			defer wg.Done()
			out[i], errs[i] = fn(ctx, jobs[i])
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0], "p1")
	require.NoError(t, errs[1], "p2")
	return out
}

// shareFrom shares tps owned by owner; only the owner reads them.
func shareFrom(ctx context.Context, j *sh2pc.Job2P, owner sh2pc.Role, tps []attribution.Touchpoint) ([]attribution.ObliviousTouchpoint, error) {
	var mine []attribution.Touchpoint
	if j.Role() == owner {
		mine = tps
	}
	return attribution.ShareBatch(ctx, j, owner, mine, len(tps))
}

func shareBit(ctx context.Context, j *sh2pc.Job2P, owner sh2pc.Role, v bool) (sh2pc.Bit, error) {
	blocks, err := j.Share(ctx, owner, []bool{v}, 1)
	if err != nil {
		return sh2pc.Bit{}, err
	}
	return sh2pc.NewBitFromBlock(j, blocks[0]), nil
}
