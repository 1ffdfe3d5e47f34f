package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coinbase/mpc-touchpoint-go/pkg/attribution"
	"github.com/coinbase/mpc-touchpoint-go/pkg/logging"
	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc/mocknet"
)

var roles = [2]sh2pc.Role{sh2pc.RoleP1, sh2pc.RoleP2}

// runSort plays both parties over an in-memory network: each secret-shares
// its touchpoints, both sort the union obliviously and open the result. The
// valid touchpoints are returned in order.
func runSort(ctx context.Context, cfg *RunConfig, runID string, log logging.Logger, reg prometheus.Registerer) ([]attribution.Touchpoint, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	net := mocknet.New()
	ep1, ep2 := net.Pair()
	eps := [2]sh2pc.Transport{ep1, ep2}

	var jobs [2]*sh2pc.Job2P
	for i, role := range roles {
		opts := []sh2pc.Option{
			sh2pc.WithLogger(log),
			sh2pc.WithMetrics(sh2pc.NewMetrics(reg, role)),
		}
		if cfg.Triples == triplesDealer {
			opts = append(opts, sh2pc.WithTripleSource(&sh2pc.DealerTripleSource{Seed: []byte(runID)}))
		}
		job, err := sh2pc.NewJob2PWithContext(ctx, eps[i], role, cfg.names(), opts...)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", role, err)
		}
		defer job.Close()
		jobs[i] = job
	}

	inputs := [2][]attribution.Touchpoint{cfg.Parties[0].touchpoints(), cfg.Parties[1].touchpoints()}
	counts := [2]int{len(inputs[0]), len(inputs[1])}

	var (
		wg      sync.WaitGroup
		results [2][]attribution.Touchpoint
		errs    [2]error
	)
	wg.Add(2)
	for i := range jobs {
		go func() {
			defer wg.Done()
			results[i], errs[i] = sortParty(ctx, jobs[i], inputs[i], counts)
			if errs[i] != nil {
				cancel()
			}
		}()
	}
	wg.Wait()
	if err := errors.Join(errs[0], errs[1]); err != nil {
		return nil, err
	}
	if !slices.Equal(results[0], results[1]) {
		return nil, errors.New("parties opened different results")
	}

	for _, dir := range [][2]sh2pc.Role{{sh2pc.RoleP1, sh2pc.RoleP2}, {sh2pc.RoleP2, sh2pc.RoleP1}} {
		st := net.Stats(sh2pc.RoleID(dir[0]), sh2pc.RoleID(dir[1]))
		log.Info(ctx, "traffic", "from", dir[0].String(), "to", dir[1].String(), "messages", st.Messages, "bytes", st.Bytes)
	}
	return results[0], nil
}

// sortParty is one party's side of runSort. own holds this party's input;
// counts holds the public input sizes of both parties in role order.
func sortParty(ctx context.Context, j *sh2pc.Job2P, own []attribution.Touchpoint, counts [2]int) ([]attribution.Touchpoint, error) {
	var all []attribution.ObliviousTouchpoint
	for k, owner := range roles {
		var data []attribution.Touchpoint
		if j.Role() == owner {
			data = own
		}
		shared, err := attribution.ShareBatch(ctx, j, owner, data, counts[k])
		if err != nil {
			return nil, fmt.Errorf("share input of %s: %w", owner, err)
		}
		all = append(all, shared...)
	}

	triples := attribution.SortTriples(len(all))
	if err := j.Preprocess(ctx, triples); err != nil {
		return nil, err
	}
	j.Logger().Debug(ctx, "preprocessed", "triples", triples)

	sorted, err := attribution.Sort(ctx, all)
	if err != nil {
		return nil, err
	}
	opened, err := attribution.RevealTouchpoints(ctx, sh2pc.PartyPublic, sorted)
	if err != nil {
		return nil, err
	}

	out := make([]attribution.Touchpoint, 0, len(opened))
	for _, tp := range opened {
		if tp.IsValid() {
			out = append(out, tp)
		}
	}
	j.Logger().Info(ctx, "sorted touchpoints", "inputs", len(all), "network", len(sorted), "valid", len(out))
	return out, nil
}
