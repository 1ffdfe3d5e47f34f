package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coinbase/mpc-touchpoint-go/pkg/logging"
	"github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc"
)

func main() {
	var (
		configPath  = flag.String("config", "touchpoints.yaml", "Run file (YAML)")
		showVersion = flag.Bool("version", false, "Print the version and exit")
		showMetrics = flag.Bool("metrics", false, "Log engine counters after the run")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("touchpoint-sort version: %s\n", sh2pc.WrapperVersion())
		return
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	handler, err := logging.NewHandler(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	runID := uuid.NewString()
	logger := logging.New(slog.New(handler)).With("run", runID)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	reg := prometheus.NewRegistry()
	logger.Info(ctx, "starting run", "version", sh2pc.WrapperVersion(), "parties", cfg.names(), "triples", cfg.Triples)

	sorted, err := runSort(ctx, cfg, runID, logger, reg)
	if err != nil {
		logger.Error(ctx, "run failed", "error", err)
		os.Exit(1)
	}
	for _, tp := range sorted {
		fmt.Println(tp)
	}

	if *showMetrics {
		if err := logMetrics(ctx, logger, reg); err != nil {
			logger.Warn(ctx, "gather metrics", "error", err)
		}
	}
}

// logMetrics writes one record per counter in reg.
func logMetrics(ctx context.Context, logger logging.Logger, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			args := []any{"name", mf.GetName(), "value", m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				args = append(args, lp.GetName(), lp.GetValue())
			}
			logger.Info(ctx, "metric", args...)
		}
	}
	return nil
}
